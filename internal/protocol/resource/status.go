package resource

import (
	"errors"

	"github.com/relayfs/relayfs/pkg/driver"
)

// StatusFromError maps a dispatch result to its wire status code.
// Untyped errors map to StatusIO, the generic backend-failure code.
func StatusFromError(err error) int32 {
	if err == nil {
		return StatusOK
	}

	var driverErr *driver.Error
	if !errors.As(err, &driverErr) {
		return StatusIO
	}

	switch driverErr.Code {
	case driver.CodeInvalidArgument:
		return StatusInvalidArgument
	case driver.CodeUnknownHost:
		return StatusUnknownHost
	case driver.CodeUnsupportedDriver:
		return StatusUnsupportedDriver
	case driver.CodeNotFound:
		return StatusNotFound
	case driver.CodeAlreadyExists:
		return StatusAlreadyExists
	case driver.CodeNotEmpty:
		return StatusNotEmpty
	case driver.CodeConnect:
		return StatusConnect
	default:
		return StatusIO
	}
}

// ErrorFromStatus is the inverse mapping, used on the redirecting side to
// rebuild the remote error for the original caller. The code survives the
// hop unchanged; only the message is reconstructed.
func ErrorFromStatus(status int32, path string) error {
	if status == StatusOK {
		return nil
	}

	var code driver.Code
	switch status {
	case StatusInvalidArgument:
		code = driver.CodeInvalidArgument
	case StatusUnknownHost:
		code = driver.CodeUnknownHost
	case StatusUnsupportedDriver:
		code = driver.CodeUnsupportedDriver
	case StatusNotFound:
		code = driver.CodeNotFound
	case StatusAlreadyExists:
		code = driver.CodeAlreadyExists
	case StatusNotEmpty:
		code = driver.CodeNotEmpty
	case StatusConnect:
		code = driver.CodeConnect
	default:
		code = driver.CodeIO
	}

	return driver.NewError(code, "remote: "+code.String(), path)
}
