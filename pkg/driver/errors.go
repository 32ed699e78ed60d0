package driver

// Error represents a domain error from dispatch or driver operations.
//
// These are business outcomes (directory not empty, host unknown) as opposed
// to infrastructure noise. The wire protocol translates Code to a signed
// status code and back, so error identity survives a redirection hop.
type Error struct {
	// Code is the error category
	Code Code

	// Message is a human-readable error description
	Message string

	// Path is the filesystem path related to the error (if applicable)
	Path string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return e.Message + ": " + e.Path
	}
	return e.Message
}

// Code represents the category of a dispatch or driver error.
type Code int

const (
	// CodeInvalidArgument indicates a malformed descriptor: path empty,
	// not absolute, over the configured bound, or unrecognized flag bits.
	// Detected before any I/O or network activity.
	CodeInvalidArgument Code = iota

	// CodeUnknownHost indicates the target host resolves to no known server
	CodeUnknownHost

	// CodeUnsupportedDriver indicates no implementation is registered for
	// the requested driver type
	CodeUnsupportedDriver

	// CodeNotFound indicates the addressed directory does not exist
	CodeNotFound

	// CodeAlreadyExists indicates a directory with the path already exists
	CodeAlreadyExists

	// CodeNotEmpty indicates a non-recursive removal hit a non-empty directory
	CodeNotEmpty

	// CodeIO indicates the underlying storage operation failed
	// (permissions, device error, backend fault)
	CodeIO

	// CodeConnect indicates the resolved remote server could not be reached
	CodeConnect
)

func (c Code) String() string {
	switch c {
	case CodeInvalidArgument:
		return "invalid argument"
	case CodeUnknownHost:
		return "unknown host"
	case CodeUnsupportedDriver:
		return "unsupported driver"
	case CodeNotFound:
		return "not found"
	case CodeAlreadyExists:
		return "already exists"
	case CodeNotEmpty:
		return "not empty"
	case CodeIO:
		return "io failure"
	case CodeConnect:
		return "connect failure"
	default:
		return "unknown"
	}
}

// NewError builds a typed driver error.
func NewError(code Code, message, path string) *Error {
	return &Error{Code: code, Message: message, Path: path}
}

// IsCode reports whether err is a *Error carrying the given code.
func IsCode(err error, code Code) bool {
	driverErr, ok := err.(*Error)
	return ok && driverErr.Code == code
}
