// Package memory implements the storage driver contract with an in-memory
// directory tree. It is used for tests and development setups that need a
// driver with no external backend.
package memory

import (
	"context"
	"path"
	"strings"
	"sync"

	"github.com/relayfs/relayfs/pkg/driver"
)

// MemoryDriver keeps a directory namespace as a set of clean absolute paths.
// The root "/" always exists and cannot be removed.
type MemoryDriver struct {
	mu   sync.RWMutex
	dirs map[string]bool
}

// New creates an empty in-memory driver containing only the root directory.
func New() *MemoryDriver {
	return &MemoryDriver{
		dirs: map[string]bool{"/": true},
	}
}

func (d *MemoryDriver) Type() driver.Type {
	return driver.TypeMemory
}

func (d *MemoryDriver) MakeDirectory(ctx context.Context, dirPath string, mode uint32) error {
	if err := ctx.Err(); err != nil {
		return driver.NewError(driver.CodeIO, err.Error(), dirPath)
	}

	clean := path.Clean(dirPath)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dirs[clean] {
		return driver.NewError(driver.CodeAlreadyExists, "directory already exists", dirPath)
	}
	if !d.dirs[path.Dir(clean)] {
		return driver.NewError(driver.CodeNotFound, "parent directory does not exist", dirPath)
	}

	d.dirs[clean] = true
	return nil
}

func (d *MemoryDriver) RemoveDirectory(ctx context.Context, dirPath string, recursive bool) error {
	if err := ctx.Err(); err != nil {
		return driver.NewError(driver.CodeIO, err.Error(), dirPath)
	}

	clean := path.Clean(dirPath)

	d.mu.Lock()
	defer d.mu.Unlock()

	if clean == "/" {
		return driver.NewError(driver.CodeIO, "cannot remove root directory", dirPath)
	}
	if !d.dirs[clean] {
		return driver.NewError(driver.CodeNotFound, "directory does not exist", dirPath)
	}

	prefix := clean + "/"

	if !recursive {
		for existing := range d.dirs {
			if strings.HasPrefix(existing, prefix) {
				return driver.NewError(driver.CodeNotEmpty, "directory not empty", dirPath)
			}
		}
		delete(d.dirs, clean)
		return nil
	}

	for existing := range d.dirs {
		if strings.HasPrefix(existing, prefix) {
			delete(d.dirs, existing)
		}
	}
	delete(d.dirs, clean)
	return nil
}

// Exists reports whether a directory is present. Test helper.
func (d *MemoryDriver) Exists(dirPath string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dirs[path.Clean(dirPath)]
}
