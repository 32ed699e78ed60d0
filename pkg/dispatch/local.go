package dispatch

import (
	"context"
	"fmt"

	"github.com/relayfs/relayfs/pkg/driver"
)

// removeLocal executes the removal against the driver registered for the
// descriptor's type on this machine. Knows nothing about remoteness.
func (d *Dispatcher) removeLocal(ctx context.Context, op *RemoveDirOp) error {
	drv, ok := d.drivers.Lookup(op.Driver)
	if !ok {
		return driver.NewError(driver.CodeUnsupportedDriver,
			fmt.Sprintf("no driver registered for type %s", op.Driver), op.Path)
	}

	recursive := op.Flags&driver.FlagRecursive != 0
	return wrapDriverError(drv.RemoveDirectory(ctx, op.Path, recursive), op.Path)
}

// makeLocal executes the creation against the locally registered driver.
func (d *Dispatcher) makeLocal(ctx context.Context, op *MakeDirOp) error {
	drv, ok := d.drivers.Lookup(op.Driver)
	if !ok {
		return driver.NewError(driver.CodeUnsupportedDriver,
			fmt.Sprintf("no driver registered for type %s", op.Driver), op.Path)
	}

	return wrapDriverError(drv.MakeDirectory(ctx, op.Path, op.Mode), op.Path)
}
