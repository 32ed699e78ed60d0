package rpc

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallRoundTrip(t *testing.T) {
	body := []byte{0x00, 0x00, 0x00, 0x2a}

	framed, err := MakeCall(7, 100027, 1, 1, body)
	require.NoError(t, err)

	message, err := ReadMessage(bytes.NewReader(framed))
	require.NoError(t, err)

	call, rest, err := ReadCall(message)
	require.NoError(t, err)

	assert.Equal(t, uint32(7), call.XID)
	assert.Equal(t, uint32(MsgCall), call.MsgType)
	assert.Equal(t, uint32(RPCVersion), call.RPCVersion)
	assert.Equal(t, uint32(100027), call.Program)
	assert.Equal(t, uint32(1), call.Version)
	assert.Equal(t, uint32(1), call.Procedure)
	assert.Equal(t, uint32(AuthNull), call.Cred.Flavor)
	assert.Equal(t, body, rest)
}

func TestReplyRoundTrip(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		data := []byte{0xff, 0xff, 0xf4, 0x48}

		framed, err := MakeSuccessReply(21, data)
		require.NoError(t, err)

		message, err := ReadMessage(bytes.NewReader(framed))
		require.NoError(t, err)

		reply, rest, err := ReadReply(message)
		require.NoError(t, err)

		assert.Equal(t, uint32(21), reply.XID)
		assert.Equal(t, uint32(MsgReply), reply.MsgType)
		assert.Equal(t, uint32(MsgAccepted), reply.ReplyState)
		assert.Equal(t, uint32(Success), reply.AcceptStat)
		assert.Equal(t, data, rest)
	})

	t.Run("ProcUnavail", func(t *testing.T) {
		framed, err := MakeProcUnavailReply(22)
		require.NoError(t, err)

		message, err := ReadMessage(bytes.NewReader(framed))
		require.NoError(t, err)

		reply, rest, err := ReadReply(message)
		require.NoError(t, err)

		assert.Equal(t, uint32(ProcUnavail), reply.AcceptStat)
		assert.Empty(t, rest)
	})
}

func TestReadCallRejectsReply(t *testing.T) {
	framed, err := MakeSuccessReply(1, nil)
	require.NoError(t, err)

	message, err := ReadMessage(bytes.NewReader(framed))
	require.NoError(t, err)

	_, _, err = ReadCall(message)
	require.Error(t, err)
}

func TestReadMessage(t *testing.T) {
	t.Run("ReassemblesFragments", func(t *testing.T) {
		var stream bytes.Buffer

		first := []byte("hello ")
		binary.Write(&stream, binary.BigEndian, uint32(len(first)))
		stream.Write(first)

		second := []byte("world")
		binary.Write(&stream, binary.BigEndian, lastFragmentBit|uint32(len(second)))
		stream.Write(second)

		message, err := ReadMessage(&stream)
		require.NoError(t, err)
		assert.Equal(t, []byte("hello world"), message)
	})

	t.Run("RejectsOversizedMessage", func(t *testing.T) {
		var stream bytes.Buffer
		binary.Write(&stream, binary.BigEndian, lastFragmentBit|uint32(maxMessageSize+1))

		_, err := ReadMessage(&stream)
		require.Error(t, err)
	})

	t.Run("TruncatedFragmentFails", func(t *testing.T) {
		var stream bytes.Buffer
		binary.Write(&stream, binary.BigEndian, lastFragmentBit|uint32(16))
		stream.Write([]byte("short"))

		_, err := ReadMessage(&stream)
		require.Error(t, err)
	})
}
