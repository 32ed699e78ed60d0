package server

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/relayfs/relayfs/internal/logger"
	"github.com/relayfs/relayfs/internal/protocol/resource"
	"github.com/relayfs/relayfs/internal/protocol/resource/rpc"
	"github.com/relayfs/relayfs/pkg/dispatch"
	"github.com/relayfs/relayfs/pkg/driver"
)

type conn struct {
	server *ResourceServer
	conn   net.Conn
}

func (c *conn) serve(ctx context.Context) {
	defer c.conn.Close()
	logger.Debug("new connection from %s", c.conn.RemoteAddr())

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if err := c.handleRequest(ctx); err != nil {
				if err != io.EOF {
					logger.Debug("handle request: %v", err)
				}
				return
			}
		}
	}
}

func (c *conn) handleRequest(ctx context.Context) error {
	message, err := rpc.ReadMessage(c.conn)
	if err != nil {
		return err
	}

	call, body, err := rpc.ReadCall(message)
	if err != nil {
		logger.Debug("parse call: %v", err)
		return nil
	}

	logger.Debug("call: XID=0x%x program=%d version=%d procedure=%d",
		call.XID, call.Program, call.Version, call.Procedure)

	if call.Program != resource.Program || call.Version != resource.ProgramVersion {
		logger.Debug("unknown program %d version %d", call.Program, call.Version)
		return nil
	}

	replyData, err := c.handleProcedure(ctx, call, body)
	if err != nil {
		return fmt.Errorf("handle procedure %d: %w", call.Procedure, err)
	}
	if replyData == nil {
		reply, err := rpc.MakeProcUnavailReply(call.XID)
		if err != nil {
			return err
		}
		_, err = c.conn.Write(reply)
		return err
	}

	return c.sendReply(call.XID, replyData)
}

// handleProcedure decodes the request, runs the dispatcher, and encodes the
// status reply. A nil result with nil error means the procedure is unknown.
func (c *conn) handleProcedure(ctx context.Context, call *rpc.CallMessage, body []byte) ([]byte, error) {
	switch call.Procedure {
	case resource.ProcNull:
		return []byte{}, nil

	case resource.ProcRemoveDirectory:
		req, err := resource.DecodeRemoveDirRequest(body)
		if err != nil {
			logger.Warn("RMDIR decode failed from %s: %v", c.conn.RemoteAddr(), err)
			return (&resource.RemoveDirResponse{Status: resource.StatusInvalidArgument}).Encode()
		}

		op := &dispatch.RemoveDirOp{
			Driver:     driver.Type(req.DriverType),
			Flags:      req.Flags,
			TargetHost: req.TargetHost,
			Path:       req.Path,
		}

		status := resource.StatusFromError(c.server.dispatcher.RemoveDirectory(ctx, op))
		c.logResult("RMDIR", req.Path, status)
		return (&resource.RemoveDirResponse{Status: status}).Encode()

	case resource.ProcMakeDirectory:
		req, err := resource.DecodeMakeDirRequest(body)
		if err != nil {
			logger.Warn("MKDIR decode failed from %s: %v", c.conn.RemoteAddr(), err)
			return (&resource.MakeDirResponse{Status: resource.StatusInvalidArgument}).Encode()
		}

		op := &dispatch.MakeDirOp{
			Driver:     driver.Type(req.DriverType),
			Mode:       req.Mode,
			TargetHost: req.TargetHost,
			Path:       req.Path,
		}

		status := resource.StatusFromError(c.server.dispatcher.MakeDirectory(ctx, op))
		c.logResult("MKDIR", req.Path, status)
		return (&resource.MakeDirResponse{Status: status}).Encode()

	default:
		logger.Debug("unknown procedure: %d", call.Procedure)
		return nil, nil
	}
}

func (c *conn) logResult(operation, path string, status int32) {
	if status == resource.StatusOK {
		logger.Info("%s path=%q client=%s status=OK", operation, path, c.conn.RemoteAddr())
		return
	}
	logger.Warn("%s path=%q client=%s status=%s",
		operation, path, c.conn.RemoteAddr(), resource.StatusString(status))
}

func (c *conn) sendReply(xid uint32, data []byte) error {
	reply, err := rpc.MakeSuccessReply(xid, data)
	if err != nil {
		return fmt.Errorf("make reply: %w", err)
	}

	if _, err := c.conn.Write(reply); err != nil {
		return fmt.Errorf("write reply: %w", err)
	}

	logger.Debug("sent reply for XID=0x%x", xid)
	return nil
}
