// Package dispatch decides where a resource-driver operation runs.
//
// Given a descriptor naming a driver type, a target host, and operation
// parameters, the Dispatcher validates it, classifies the target against
// the cluster topology, and either invokes the local driver or forwards
// the descriptor one hop to the owning server. Both paths honor the same
// contract: same inputs, one terminal result, no retries, no partial
// cleanup.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/relayfs/relayfs/internal/logger"
	"github.com/relayfs/relayfs/pkg/driver"
	"github.com/relayfs/relayfs/pkg/topology"
)

// DefaultMaxPathLength is the cluster-wide path bound used when the
// configuration does not override it. Every server must agree on the
// effective value.
const DefaultMaxPathLength = 1024

// RemoveDirOp describes one directory-removal request. Constructed fresh
// per call, consumed synchronously, never retained or mutated by dispatch.
type RemoveDirOp struct {
	// Driver selects the storage-driver implementation on the target
	Driver driver.Type

	// Flags modifies the operation; only driver.FlagRecursive is defined
	Flags uint32

	// TargetHost names the server that owns the resource
	TargetHost string

	// Path is the absolute directory path on the target's filesystem
	Path string
}

// MakeDirOp describes one directory-creation request.
type MakeDirOp struct {
	// Driver selects the storage-driver implementation on the target
	Driver driver.Type

	// Mode carries POSIX permission bits for the new directory
	Mode uint32

	// TargetHost names the server that owns the resource
	TargetHost string

	// Path is the absolute directory path on the target's filesystem
	Path string
}

// Forwarder carries a descriptor to a remote server and relays the result
// verbatim. The network redirector implements it; tests substitute fakes.
type Forwarder interface {
	RemoveDirectory(ctx context.Context, peer *topology.Peer, op *RemoveDirOp) error
	MakeDirectory(ctx context.Context, peer *topology.Peer, op *MakeDirOp) error
}

// Dispatcher is the single entry point callers interact with.
//
// It holds no per-call state: the topology resolver and driver registry are
// read-mostly snapshots owned elsewhere, so any number of dispatches may run
// concurrently.
type Dispatcher struct {
	resolver      *topology.Resolver
	drivers       *driver.Registry
	forwarder     Forwarder
	maxPathLength int
}

// New creates a dispatcher.
//
// forwarder may be nil for a server that never redirects (single-node
// deployments); remote targets then fail with a connect error.
// maxPathLength <= 0 selects DefaultMaxPathLength.
//
// Panics if resolver or drivers is nil (programmer error).
func New(resolver *topology.Resolver, drivers *driver.Registry, forwarder Forwarder, maxPathLength int) *Dispatcher {
	if resolver == nil {
		panic("topology resolver cannot be nil")
	}
	if drivers == nil {
		panic("driver registry cannot be nil")
	}
	if maxPathLength <= 0 {
		maxPathLength = DefaultMaxPathLength
	}

	return &Dispatcher{
		resolver:      resolver,
		drivers:       drivers,
		forwarder:     forwarder,
		maxPathLength: maxPathLength,
	}
}

// RemoveDirectory validates the descriptor and routes it to the local
// driver or to the owning remote server.
func (d *Dispatcher) RemoveDirectory(ctx context.Context, op *RemoveDirOp) error {
	if op == nil {
		panic("remove-directory descriptor cannot be nil")
	}

	if err := d.validatePath(op.Path); err != nil {
		return err
	}
	if op.Flags&^driver.FlagRecursive != 0 {
		return driver.NewError(driver.CodeInvalidArgument,
			fmt.Sprintf("unrecognized flag bits 0x%x", op.Flags&^driver.FlagRecursive), op.Path)
	}

	class, peer := d.resolver.Classify(op.TargetHost)
	logger.Debug("dispatch: rmdir path=%q driver=%s target=%q class=%s",
		op.Path, op.Driver, op.TargetHost, class)

	switch class {
	case topology.ClassLocal:
		return d.removeLocal(ctx, op)
	case topology.ClassRemote:
		return d.forwardRemove(ctx, peer, op)
	default:
		return driver.NewError(driver.CodeUnknownHost,
			fmt.Sprintf("target host %q does not resolve to any known server", op.TargetHost), op.Path)
	}
}

// MakeDirectory validates the descriptor and routes it to the local driver
// or to the owning remote server.
func (d *Dispatcher) MakeDirectory(ctx context.Context, op *MakeDirOp) error {
	if op == nil {
		panic("make-directory descriptor cannot be nil")
	}

	if err := d.validatePath(op.Path); err != nil {
		return err
	}

	class, peer := d.resolver.Classify(op.TargetHost)
	logger.Debug("dispatch: mkdir path=%q driver=%s target=%q class=%s",
		op.Path, op.Driver, op.TargetHost, class)

	switch class {
	case topology.ClassLocal:
		return d.makeLocal(ctx, op)
	case topology.ClassRemote:
		return d.forwardMake(ctx, peer, op)
	default:
		return driver.NewError(driver.CodeUnknownHost,
			fmt.Sprintf("target host %q does not resolve to any known server", op.TargetHost), op.Path)
	}
}

// validatePath enforces the descriptor invariants before any driver or
// network activity.
func (d *Dispatcher) validatePath(path string) error {
	if path == "" {
		return driver.NewError(driver.CodeInvalidArgument, "path is empty", path)
	}
	if path[0] != '/' {
		return driver.NewError(driver.CodeInvalidArgument, "path is not absolute", path)
	}
	if len(path) > d.maxPathLength {
		return driver.NewError(driver.CodeInvalidArgument,
			fmt.Sprintf("path length %d exceeds maximum %d", len(path), d.maxPathLength), "")
	}
	return nil
}

func (d *Dispatcher) forwardRemove(ctx context.Context, peer *topology.Peer, op *RemoveDirOp) error {
	if d.forwarder == nil {
		return driver.NewError(driver.CodeConnect, "no redirector configured", op.Path)
	}
	return d.forwarder.RemoveDirectory(ctx, peer, op)
}

func (d *Dispatcher) forwardMake(ctx context.Context, peer *topology.Peer, op *MakeDirOp) error {
	if d.forwarder == nil {
		return driver.NewError(driver.CodeConnect, "no redirector configured", op.Path)
	}
	return d.forwarder.MakeDirectory(ctx, peer, op)
}

// wrapDriverError passes typed errors through untouched and maps anything
// else a driver leaks to an I/O failure.
func wrapDriverError(err error, path string) error {
	if err == nil {
		return nil
	}
	var driverErr *driver.Error
	if errors.As(err, &driverErr) {
		return driverErr
	}
	return driver.NewError(driver.CodeIO, err.Error(), path)
}
