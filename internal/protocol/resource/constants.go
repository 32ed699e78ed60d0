// Package resource defines the wire contract for the resource-driver
// program: the procedure numbers, the per-operation XDR request and
// response bodies, and the signed status codes shared by every server in
// the cluster.
package resource

// Program numbers
const (
	// Program is the resource-driver RPC program number
	Program = 100027

	// ProgramVersion is the supported program version
	ProgramVersion = 1
)

// Procedures
const (
	// ProcNull is the no-op ping procedure
	ProcNull = 0

	// ProcRemoveDirectory removes a directory on the target resource
	ProcRemoveDirectory = 1

	// ProcMakeDirectory creates a directory on the target resource
	ProcMakeDirectory = 2
)

// Status codes returned by every procedure. Zero is success; failures are
// negative codes drawn from the shared taxonomy. The codes are part of the
// cluster contract: a relayed remote error carries its original code.
const (
	StatusOK int32 = 0

	StatusInvalidArgument   int32 = -3001
	StatusUnknownHost       int32 = -3002
	StatusUnsupportedDriver int32 = -3003
	StatusNotFound          int32 = -3004
	StatusAlreadyExists     int32 = -3005
	StatusNotEmpty          int32 = -3006
	StatusIO                int32 = -3007
	StatusConnect           int32 = -3008
)

// StatusString names a status code for logs.
func StatusString(status int32) string {
	switch status {
	case StatusOK:
		return "OK"
	case StatusInvalidArgument:
		return "INVALID_ARGUMENT"
	case StatusUnknownHost:
		return "UNKNOWN_HOST"
	case StatusUnsupportedDriver:
		return "UNSUPPORTED_DRIVER"
	case StatusNotFound:
		return "NOT_FOUND"
	case StatusAlreadyExists:
		return "ALREADY_EXISTS"
	case StatusNotEmpty:
		return "NOT_EMPTY"
	case StatusIO:
		return "IO_FAILURE"
	case StatusConnect:
		return "CONNECT_FAILURE"
	default:
		return "UNKNOWN"
	}
}
