package rpc

// CallMessage is the RPC call header preceding every procedure request.
// Authentication is AUTH_NULL only; the Cred and Verf fields are carried
// for wire compatibility, not inspected.
type CallMessage struct {
	XID        uint32
	MsgType    uint32 // 0 = CALL
	RPCVersion uint32
	Program    uint32
	Version    uint32
	Procedure  uint32
	Cred       OpaqueAuth
	Verf       OpaqueAuth
}

// ReplyMessage is the RPC reply header preceding every procedure response.
type ReplyMessage struct {
	XID        uint32
	MsgType    uint32 // 1 = REPLY
	ReplyState uint32 // 0 = MSG_ACCEPTED
	Verf       OpaqueAuth
	AcceptStat uint32 // 0 = SUCCESS
	// Reply data follows
}

type OpaqueAuth struct {
	Flavor uint32
	Body   []byte `xdr:"opaque"`
}
