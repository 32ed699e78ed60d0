// Package topology classifies target host addresses against the set of
// server identities known to this process: its own identity plus the
// configured peers.
//
// Classification is a pure lookup. No DNS resolution or network I/O happens
// here; two textual forms of the same host compare equal because both are
// reduced to a canonical identity first.
package topology

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync/atomic"
)

// DefaultPort is the service port assumed when an address carries none.
// It must agree across the cluster.
const DefaultPort = 11247

// DefaultServiceAddress returns the default listen address.
func DefaultServiceAddress() string {
	return fmt.Sprintf(":%d", DefaultPort)
}

// Class is the outcome of classifying a target host address.
type Class int

const (
	// ClassLocal means the address names this server
	ClassLocal Class = iota

	// ClassRemote means the address names a configured peer
	ClassRemote

	// ClassInvalid means the address is unparseable or names no known server
	ClassInvalid
)

func (c Class) String() string {
	switch c {
	case ClassLocal:
		return "local"
	case ClassRemote:
		return "remote"
	case ClassInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Peer describes one configured remote server.
type Peer struct {
	// Name is the configured label, used in logs
	Name string

	// Address is the canonical host:port to dial
	Address string
}

// Table is an immutable snapshot of the known cluster topology.
// Build a new Table and swap it into the Resolver to change topology.
type Table struct {
	local string
	peers map[string]*Peer
}

// NewTable builds a topology snapshot from the local identity and peer list.
// Addresses are canonicalized; duplicate identities are rejected.
func NewTable(local string, peers []Peer) (*Table, error) {
	canonicalLocal, err := Canonicalize(local)
	if err != nil {
		return nil, fmt.Errorf("local identity %q: %w", local, err)
	}

	table := &Table{
		local: canonicalLocal,
		peers: make(map[string]*Peer, len(peers)),
	}

	for i, peer := range peers {
		canonical, err := Canonicalize(peer.Address)
		if err != nil {
			return nil, fmt.Errorf("peer[%d] %q: %w", i, peer.Address, err)
		}
		if canonical == canonicalLocal {
			return nil, fmt.Errorf("peer[%d] %q duplicates the local identity", i, peer.Address)
		}
		if _, exists := table.peers[canonical]; exists {
			return nil, fmt.Errorf("peer[%d] %q duplicates another peer", i, peer.Address)
		}
		table.peers[canonical] = &Peer{Name: peer.Name, Address: canonical}
	}

	return table, nil
}

// Local returns the canonical local identity.
func (t *Table) Local() string {
	return t.local
}

// Classify resolves an address to local, a specific known remote, or invalid.
// The returned peer is non-nil exactly when the class is ClassRemote.
func (t *Table) Classify(address string) (Class, *Peer) {
	canonical, err := Canonicalize(address)
	if err != nil {
		return ClassInvalid, nil
	}

	if canonical == t.local {
		return ClassLocal, nil
	}
	if peer, ok := t.peers[canonical]; ok {
		return ClassRemote, peer
	}

	return ClassInvalid, nil
}

// Canonicalize reduces an address to its canonical host:port identity:
// lowercased host, textual IPs normalized, DefaultPort filled in when the
// port is missing.
func Canonicalize(address string) (string, error) {
	if address == "" {
		return "", fmt.Errorf("empty address")
	}

	host, port, err := net.SplitHostPort(address)
	if err != nil {
		// No port in the address; use the cluster default.
		host, port = address, strconv.Itoa(DefaultPort)
	}

	if host == "" {
		return "", fmt.Errorf("empty host")
	}
	if strings.ContainsAny(host, " /") {
		return "", fmt.Errorf("malformed host %q", host)
	}

	portNum, err := strconv.Atoi(port)
	if err != nil || portNum < 1 || portNum > 65535 {
		return "", fmt.Errorf("malformed port %q", port)
	}

	if ip := net.ParseIP(host); ip != nil {
		host = ip.String()
	} else {
		host = strings.ToLower(host)
	}

	return net.JoinHostPort(host, strconv.Itoa(portNum)), nil
}

// Resolver hands out classifications from the current topology snapshot.
//
// Reads are lock-free; the snapshot is replaced whole by its owner (the
// configuration layer) and in-flight dispatches keep the table they started
// with.
type Resolver struct {
	table atomic.Pointer[Table]
}

// NewResolver creates a resolver serving the given snapshot.
func NewResolver(table *Table) *Resolver {
	if table == nil {
		panic("topology table cannot be nil")
	}
	r := &Resolver{}
	r.table.Store(table)
	return r
}

// Classify resolves an address against the current snapshot.
func (r *Resolver) Classify(address string) (Class, *Peer) {
	return r.table.Load().Classify(address)
}

// Local returns the canonical local identity of the current snapshot.
func (r *Resolver) Local() string {
	return r.table.Load().Local()
}

// Replace swaps in a new topology snapshot.
func (r *Resolver) Replace(table *Table) {
	if table == nil {
		panic("topology table cannot be nil")
	}
	r.table.Store(table)
}
