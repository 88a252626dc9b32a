package client

import "fmt"

// ServerError wraps a RESP2 error reply ("-<message>\r\n") returned by the
// server in response to a command.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string { return "hybridkv: server error: " + e.Message }

// UnexpectedResponseError is returned when the server's reply is well-formed
// RESP2 but not of the kind this command expects (e.g. an array in place of
// an integer).
type UnexpectedResponseError struct {
	Command string
	Kind    string
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("hybridkv: unexpected %s reply to %s", e.Kind, e.Command)
}
