package driver

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Registry maps driver type tags to registered implementations.
//
// Lookups run lock-free against an immutable table snapshot; mutation
// happens only by building a new table and swapping it whole. Registration
// is expected at startup and reconfiguration, never during a dispatch.
//
// Example usage:
//
//	reg := NewRegistry()
//	reg.Register(posix.New(""))
//	reg.Register(memory.New())
//
//	drv, ok := reg.Lookup(driver.TypePosix)
type Registry struct {
	// writeMu serializes writers; readers never take it
	writeMu sync.Mutex
	table   atomic.Pointer[map[Type]Driver]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	empty := make(map[Type]Driver)
	r.table.Store(&empty)
	return r
}

// Register adds a driver under its type tag.
// Returns an error if the driver is nil or the tag is already taken.
func (r *Registry) Register(d Driver) error {
	if d == nil {
		return fmt.Errorf("cannot register nil driver")
	}
	if d.Type() == TypeUnknown {
		return fmt.Errorf("cannot register driver with unknown type")
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	current := *r.table.Load()
	if _, exists := current[d.Type()]; exists {
		return fmt.Errorf("driver %q already registered", d.Type())
	}

	next := make(map[Type]Driver, len(current)+1)
	for t, existing := range current {
		next[t] = existing
	}
	next[d.Type()] = d

	r.table.Store(&next)
	return nil
}

// Replace swaps the entire driver table for the given set.
// Used by the configuration owner when the driver set changes; in-flight
// lookups keep seeing the table they started with.
func (r *Registry) Replace(drivers []Driver) error {
	next := make(map[Type]Driver, len(drivers))
	for _, d := range drivers {
		if d == nil {
			return fmt.Errorf("cannot register nil driver")
		}
		if _, exists := next[d.Type()]; exists {
			return fmt.Errorf("duplicate driver %q in replacement set", d.Type())
		}
		next[d.Type()] = d
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	r.table.Store(&next)
	return nil
}

// Lookup returns the driver registered for the given type tag.
func (r *Registry) Lookup(t Type) (Driver, bool) {
	d, ok := (*r.table.Load())[t]
	return d, ok
}

// Types returns the tags currently registered, in no particular order.
func (r *Registry) Types() []Type {
	current := *r.table.Load()
	types := make([]Type, 0, len(current))
	for t := range current {
		types = append(types, t)
	}
	return types
}
