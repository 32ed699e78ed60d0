// Package posix implements the storage driver contract over the local
// filesystem.
package posix

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/relayfs/relayfs/pkg/driver"
)

// PosixDriver executes directory operations against the local filesystem.
//
// An optional root confines all operations under a base directory; request
// paths are joined beneath it. With an empty root, request paths are used
// as-is.
//
// The filesystem itself is the source of truth: the driver holds no state
// and is safe for concurrent use.
type PosixDriver struct {
	root string
}

// New creates a filesystem driver rooted at the given base directory.
// An empty root means request paths address the real filesystem directly.
func New(root string) *PosixDriver {
	return &PosixDriver{root: root}
}

func (d *PosixDriver) Type() driver.Type {
	return driver.TypePosix
}

// resolve maps a request path into the driver's namespace.
func (d *PosixDriver) resolve(path string) string {
	if d.root == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(d.root, filepath.Clean(path))
}

// MakeDirectory creates a single directory with the given permission bits.
// The parent must already exist.
func (d *PosixDriver) MakeDirectory(ctx context.Context, path string, mode uint32) error {
	if err := ctx.Err(); err != nil {
		return driver.NewError(driver.CodeIO, err.Error(), path)
	}

	if err := os.Mkdir(d.resolve(path), fs.FileMode(mode)); err != nil {
		switch {
		case errors.Is(err, fs.ErrExist):
			return driver.NewError(driver.CodeAlreadyExists, "directory already exists", path)
		case errors.Is(err, fs.ErrNotExist):
			return driver.NewError(driver.CodeNotFound, "parent directory does not exist", path)
		default:
			return driver.NewError(driver.CodeIO, err.Error(), path)
		}
	}

	return nil
}

// RemoveDirectory removes a directory, depth-first when recursive is set.
func (d *PosixDriver) RemoveDirectory(ctx context.Context, path string, recursive bool) error {
	if err := ctx.Err(); err != nil {
		return driver.NewError(driver.CodeIO, err.Error(), path)
	}

	target := d.resolve(path)

	// os.RemoveAll treats a missing path as success; the contract wants
	// a distinct not-found outcome, so check existence first.
	info, err := os.Lstat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return driver.NewError(driver.CodeNotFound, "directory does not exist", path)
		}
		return driver.NewError(driver.CodeIO, err.Error(), path)
	}

	if !info.IsDir() {
		return driver.NewError(driver.CodeIO, "not a directory", path)
	}

	if recursive {
		if err := os.RemoveAll(target); err != nil {
			return driver.NewError(driver.CodeIO, err.Error(), path)
		}
		return nil
	}

	if err := os.Remove(target); err != nil {
		if isNotEmpty(err) {
			return driver.NewError(driver.CodeNotEmpty, "directory not empty", path)
		}
		return driver.NewError(driver.CodeIO, err.Error(), path)
	}

	return nil
}
