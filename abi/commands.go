package abi

// CommandCode identifies the ioctl operation requested of the kernel
// sidecar.
type CommandCode uint8

const (
	CmdRead CommandCode = iota
	CmdPromote
	CmdBatchPromote
	CmdDemote
	CmdInvalidate
	CmdStats
	CmdConfig
	CmdFlush
)

// StatusOK is the response status value meaning success; any non-zero
// value is an implementation-defined error code.
const StatusOK uint32 = 0
