package rpc

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxMessageSize bounds a single de-framed message. Requests here are a
// fixed header plus one bounded path, so anything near this limit is junk.
const maxMessageSize = 1 << 20

// ReadMessage reads record-marking fragments from the stream until the last
// fragment and returns the reassembled message.
func ReadMessage(r io.Reader) ([]byte, error) {
	var message []byte

	for {
		var header [4]byte
		if _, err := io.ReadFull(r, header[:]); err != nil {
			return nil, err
		}

		raw := binary.BigEndian.Uint32(header[:])
		isLast := raw&lastFragmentBit != 0
		length := raw &^ uint32(lastFragmentBit)

		if int(length) > maxMessageSize-len(message) {
			return nil, fmt.Errorf("message exceeds %d bytes", maxMessageSize)
		}

		fragment := make([]byte, length)
		if _, err := io.ReadFull(r, fragment); err != nil {
			return nil, fmt.Errorf("read fragment: %w", err)
		}
		message = append(message, fragment...)

		if isLast {
			return message, nil
		}
	}
}
