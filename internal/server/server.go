// Package server exposes the resource-driver program over TCP.
//
// Each inbound connection gets its own goroutine; each request is decoded,
// handed to the dispatcher, and answered with a status-only reply. The
// server keeps no per-request state.
package server

import (
	"context"
	"net"

	"github.com/relayfs/relayfs/internal/logger"
	"github.com/relayfs/relayfs/pkg/dispatch"
)

type ResourceServer struct {
	addr       string
	listener   net.Listener
	dispatcher *dispatch.Dispatcher
}

// New creates a server that answers the resource program on addr.
// Panics if dispatcher is nil (programmer error).
func New(addr string, dispatcher *dispatch.Dispatcher) *ResourceServer {
	if dispatcher == nil {
		panic("dispatcher cannot be nil")
	}

	return &ResourceServer{
		addr:       addr,
		dispatcher: dispatcher,
	}
}

// Addr returns the bound listener address, or nil before Listen.
// Useful when the configured address carries port 0.
func (s *ResourceServer) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Listen binds the listener without accepting. Serve calls it when needed;
// callers that need the bound address before serving call it themselves.
func (s *ResourceServer) Listen() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.listener = listener
	return nil
}

// Serve accepts connections until the context is cancelled.
func (s *ResourceServer) Serve(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	logger.Info("resource server listening on %s", s.listener.Addr())

	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		tcpConn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				logger.Debug("accept: %v", err)
				continue
			}
		}

		c := &conn{server: s, conn: tcpConn}
		go c.serve(ctx)
	}
}

// Stop closes the listener. Connections already accepted drain on their own.
func (s *ResourceServer) Stop() error {
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}
