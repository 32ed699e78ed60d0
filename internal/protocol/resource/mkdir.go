package resource

import (
	"bytes"
	"fmt"

	xdr "github.com/rasky/go-xdr/xdr2"
)

// MakeDirRequest is the wire form of one directory-creation descriptor.
// Same shape as RemoveDirRequest with the permission mode in place of flags.
type MakeDirRequest struct {
	// DriverType selects the storage-driver implementation on the target
	DriverType uint32

	// Mode carries POSIX permission bits for the new directory
	Mode uint32

	// TargetHost names the server that owns the resource
	TargetHost string

	// Path is the absolute directory path on the target's filesystem
	Path string
}

// MakeDirResponse carries the single signed status of the creation.
type MakeDirResponse struct {
	Status int32
}

// DecodeMakeDirRequest decodes a request body received off the wire.
func DecodeMakeDirRequest(data []byte) (*MakeDirRequest, error) {
	req := &MakeDirRequest{}
	if _, err := xdr.Unmarshal(bytes.NewReader(data), req); err != nil {
		return nil, fmt.Errorf("decode make-directory request: %w", err)
	}
	return req, nil
}

// Encode serializes the request for transmission.
func (req *MakeDirRequest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, req); err != nil {
		return nil, fmt.Errorf("encode make-directory request: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeMakeDirResponse decodes a response body received off the wire.
func DecodeMakeDirResponse(data []byte) (*MakeDirResponse, error) {
	resp := &MakeDirResponse{}
	if _, err := xdr.Unmarshal(bytes.NewReader(data), resp); err != nil {
		return nil, fmt.Errorf("decode make-directory response: %w", err)
	}
	return resp, nil
}

// Encode serializes the response for transmission.
func (resp *MakeDirResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, resp); err != nil {
		return nil, fmt.Errorf("encode make-directory response: %w", err)
	}
	return buf.Bytes(), nil
}
