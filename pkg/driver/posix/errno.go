package posix

import (
	"errors"
	"syscall"
)

// isNotEmpty reports whether an rmdir failure means the directory still has
// entries. POSIX allows either ENOTEMPTY or EEXIST for this case.
func isNotEmpty(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	return errno == syscall.ENOTEMPTY || errno == syscall.EEXIST
}
