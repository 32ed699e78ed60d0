package resource

import (
	"bytes"
	"fmt"

	xdr "github.com/rasky/go-xdr/xdr2"
)

// RemoveDirRequest is the wire form of one directory-removal descriptor.
//
// The four fields travel unchanged through a redirection hop: the receiving
// server re-resolves TargetHost itself, finds it local, and executes. Flags
// currently defines only the recursive bit (driver.FlagRecursive).
type RemoveDirRequest struct {
	// DriverType selects the storage-driver implementation on the target
	DriverType uint32

	// Flags is the operation modifier bitmask
	Flags uint32

	// TargetHost names the server that owns the resource
	TargetHost string

	// Path is the absolute directory path on the target's filesystem
	Path string
}

// RemoveDirResponse carries the single signed status of the removal.
type RemoveDirResponse struct {
	Status int32
}

// DecodeRemoveDirRequest decodes a request body received off the wire.
func DecodeRemoveDirRequest(data []byte) (*RemoveDirRequest, error) {
	req := &RemoveDirRequest{}
	if _, err := xdr.Unmarshal(bytes.NewReader(data), req); err != nil {
		return nil, fmt.Errorf("decode remove-directory request: %w", err)
	}
	return req, nil
}

// Encode serializes the request for transmission.
func (req *RemoveDirRequest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, req); err != nil {
		return nil, fmt.Errorf("encode remove-directory request: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeRemoveDirResponse decodes a response body received off the wire.
func DecodeRemoveDirResponse(data []byte) (*RemoveDirResponse, error) {
	resp := &RemoveDirResponse{}
	if _, err := xdr.Unmarshal(bytes.NewReader(data), resp); err != nil {
		return nil, fmt.Errorf("decode remove-directory response: %w", err)
	}
	return resp, nil
}

// Encode serializes the response for transmission.
func (resp *RemoveDirResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, resp); err != nil {
		return nil, fmt.Errorf("encode remove-directory response: %w", err)
	}
	return buf.Bytes(), nil
}
