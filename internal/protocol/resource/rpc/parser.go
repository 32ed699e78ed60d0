package rpc

import (
	"bytes"
	"encoding/binary"
	"fmt"

	xdr "github.com/rasky/go-xdr/xdr2"
)

// ReadCall parses the RPC call header from a de-framed message and returns
// it together with the procedure body that follows the header.
func ReadCall(message []byte) (*CallMessage, []byte, error) {
	call := &CallMessage{}
	consumed, err := xdr.Unmarshal(bytes.NewReader(message), call)
	if err != nil {
		return nil, nil, fmt.Errorf("unmarshal RPC call: %w", err)
	}

	if call.MsgType != MsgCall {
		return nil, nil, fmt.Errorf("expected CALL (%d), got %d", MsgCall, call.MsgType)
	}

	return call, message[consumed:], nil
}

// MakeCall builds a framed call message for one procedure invocation.
// The body is the XDR-encoded procedure request.
func MakeCall(xid, program, version, procedure uint32, body []byte) ([]byte, error) {
	call := CallMessage{
		XID:        xid,
		MsgType:    MsgCall,
		RPCVersion: RPCVersion,
		Program:    program,
		Version:    version,
		Procedure:  procedure,
		Cred:       OpaqueAuth{Flavor: AuthNull, Body: []byte{}},
		Verf:       OpaqueAuth{Flavor: AuthNull, Body: []byte{}},
	}

	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, &call); err != nil {
		return nil, fmt.Errorf("marshal call: %w", err)
	}
	buf.Write(body)

	return frame(buf.Bytes()), nil
}

// MakeSuccessReply builds a framed accepted-success reply carrying the
// XDR-encoded procedure response.
func MakeSuccessReply(xid uint32, data []byte) ([]byte, error) {
	return makeReply(xid, Success, data)
}

// MakeProcUnavailReply builds a framed reply rejecting an unknown procedure.
func MakeProcUnavailReply(xid uint32) ([]byte, error) {
	return makeReply(xid, ProcUnavail, nil)
}

func makeReply(xid, acceptStat uint32, data []byte) ([]byte, error) {
	reply := ReplyMessage{
		XID:        xid,
		MsgType:    MsgReply,
		ReplyState: MsgAccepted,
		Verf:       OpaqueAuth{Flavor: AuthNull, Body: []byte{}},
		AcceptStat: acceptStat,
	}

	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, &reply); err != nil {
		return nil, fmt.Errorf("marshal reply: %w", err)
	}
	buf.Write(data)

	return frame(buf.Bytes()), nil
}

// ReadReply parses the RPC reply header from a de-framed message and
// returns it together with the procedure response body.
func ReadReply(message []byte) (*ReplyMessage, []byte, error) {
	reply := &ReplyMessage{}
	consumed, err := xdr.Unmarshal(bytes.NewReader(message), reply)
	if err != nil {
		return nil, nil, fmt.Errorf("unmarshal RPC reply: %w", err)
	}

	if reply.MsgType != MsgReply {
		return nil, nil, fmt.Errorf("expected REPLY (%d), got %d", MsgReply, reply.MsgType)
	}

	return reply, message[consumed:], nil
}

// frame prepends the record-marking fragment header (last-fragment bit set).
func frame(message []byte) []byte {
	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, lastFragmentBit|uint32(len(message)))
	return append(header, message...)
}
