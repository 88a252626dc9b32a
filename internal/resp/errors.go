package resp

import "errors"

// ErrProtocol is returned for any malformed RESP2 input: a bulk payload not
// followed by CRLF, a non-digit in an integer or length field, an
// out-of-range length, or an unknown type prefix. Incomplete input is not
// an error (the parser reports it as "need more bytes"), and the parser has
// no notion of end of stream: a peer that closes mid-frame surfaces as the
// caller's own read error, not as ErrProtocol.
var ErrProtocol = errors.New("resp: protocol error")
