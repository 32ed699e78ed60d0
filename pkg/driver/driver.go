// Package driver defines the storage-driver contract and the registry that
// maps driver type tags to registered implementations.
//
// A driver binds filesystem primitives to one class of storage resource
// (local POSIX tree, in-memory tree, BadgerDB namespace, S3 bucket prefix).
// Drivers know nothing about cluster topology: they always operate on the
// machine where the process runs, against paths local to their backend.
package driver

import (
	"context"
	"fmt"
	"strings"
)

// Type identifies which storage-driver implementation must handle a request.
//
// The set is closed: requests carrying a tag outside this set fail with
// CodeUnsupportedDriver at lookup time, never a silent default.
type Type uint32

const (
	TypeUnknown Type = iota
	TypePosix
	TypeMemory
	TypeBadger
	TypeS3
)

// FlagRecursive requests removal of a non-empty directory tree.
// Without it, removing a non-empty directory fails with CodeNotEmpty.
// All other flag bits are reserved and rejected by the dispatcher.
const FlagRecursive uint32 = 0x1

func (t Type) String() string {
	switch t {
	case TypePosix:
		return "posix"
	case TypeMemory:
		return "memory"
	case TypeBadger:
		return "badger"
	case TypeS3:
		return "s3"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(t))
	}
}

// ParseType converts a configuration name to a driver type tag.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(name) {
	case "posix":
		return TypePosix, nil
	case "memory":
		return TypeMemory, nil
	case "badger":
		return TypeBadger, nil
	case "s3":
		return TypeS3, nil
	default:
		return TypeUnknown, fmt.Errorf("unknown driver type: %q", name)
	}
}

// Driver is the filesystem primitive contract implemented by each backend.
//
// Paths are absolute within the driver's own namespace. Drivers surface
// failures as *Error values from the shared taxonomy; they perform no
// retries and leave partially failed state exactly as the backend left it.
type Driver interface {
	// Type returns the tag this driver is registered under.
	Type() Type

	// MakeDirectory creates a single directory. The parent must already
	// exist. mode carries POSIX permission bits; backends without a
	// permission model may ignore it.
	MakeDirectory(ctx context.Context, path string, mode uint32) error

	// RemoveDirectory removes a directory. With recursive set the entire
	// subtree is removed; without it a non-empty directory fails with
	// CodeNotEmpty and nothing is deleted.
	RemoveDirectory(ctx context.Context, path string, recursive bool) error
}
