package rpc

// RPCVersion is the only supported RPC protocol version.
const RPCVersion = 2

// RPC message types
const (
	// MsgCall indicates an RPC call message
	MsgCall = 0

	// MsgReply indicates an RPC reply message
	MsgReply = 1
)

// RPC reply states
const (
	// MsgAccepted indicates the RPC call was accepted
	MsgAccepted = 0

	// MsgDenied indicates the RPC call was denied
	MsgDenied = 1
)

// RPC accept status
const (
	// Success indicates successful RPC execution
	Success = 0

	// ProgUnavail indicates the program is not supported
	ProgUnavail = 1

	// ProcUnavail indicates the procedure is unavailable
	ProcUnavail = 3
)

// AuthNull is the only authentication flavor this protocol carries.
const AuthNull = 0

// lastFragmentBit marks the final record-marking fragment of a message.
const lastFragmentBit = 0x80000000
