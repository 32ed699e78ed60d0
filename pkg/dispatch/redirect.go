package dispatch

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/relayfs/relayfs/internal/logger"
	"github.com/relayfs/relayfs/internal/protocol/resource"
	"github.com/relayfs/relayfs/internal/protocol/resource/rpc"
	"github.com/relayfs/relayfs/pkg/driver"
	"github.com/relayfs/relayfs/pkg/topology"
)

// DefaultDialTimeout bounds connection establishment to a peer.
// The call itself carries no deadline unless the caller's context has one.
const DefaultDialTimeout = 10 * time.Second

// Redirector forwards descriptors to the equivalent procedure on a peer
// server and relays the status verbatim.
//
// One connection is dialed per call and released on every exit path. The
// descriptor crosses the wire unchanged, so the receiving server's resolver
// classifies its target host as local — redirection is single-hop by
// construction.
type Redirector struct {
	dialTimeout time.Duration
	xid         atomic.Uint32
}

// NewRedirector creates a redirector. dialTimeout <= 0 selects
// DefaultDialTimeout.
func NewRedirector(dialTimeout time.Duration) *Redirector {
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}

	r := &Redirector{dialTimeout: dialTimeout}
	r.xid.Store(uint32(time.Now().UnixNano()))
	return r
}

// RemoveDirectory forwards a removal descriptor to the owning server.
func (r *Redirector) RemoveDirectory(ctx context.Context, peer *topology.Peer, op *RemoveDirOp) error {
	request := &resource.RemoveDirRequest{
		DriverType: uint32(op.Driver),
		Flags:      op.Flags,
		TargetHost: op.TargetHost,
		Path:       op.Path,
	}

	body, err := request.Encode()
	if err != nil {
		return driver.NewError(driver.CodeIO, err.Error(), op.Path)
	}

	data, err := r.call(ctx, peer, resource.ProcRemoveDirectory, body, op.Path)
	if err != nil {
		return err
	}

	response, err := resource.DecodeRemoveDirResponse(data)
	if err != nil {
		return driver.NewError(driver.CodeIO, err.Error(), op.Path)
	}

	logger.Debug("redirect: rmdir peer=%s path=%q status=%s",
		peer.Address, op.Path, resource.StatusString(response.Status))

	return resource.ErrorFromStatus(response.Status, op.Path)
}

// MakeDirectory forwards a creation descriptor to the owning server.
func (r *Redirector) MakeDirectory(ctx context.Context, peer *topology.Peer, op *MakeDirOp) error {
	request := &resource.MakeDirRequest{
		DriverType: uint32(op.Driver),
		Mode:       op.Mode,
		TargetHost: op.TargetHost,
		Path:       op.Path,
	}

	body, err := request.Encode()
	if err != nil {
		return driver.NewError(driver.CodeIO, err.Error(), op.Path)
	}

	data, err := r.call(ctx, peer, resource.ProcMakeDirectory, body, op.Path)
	if err != nil {
		return err
	}

	response, err := resource.DecodeMakeDirResponse(data)
	if err != nil {
		return driver.NewError(driver.CodeIO, err.Error(), op.Path)
	}

	logger.Debug("redirect: mkdir peer=%s path=%q status=%s",
		peer.Address, op.Path, resource.StatusString(response.Status))

	return resource.ErrorFromStatus(response.Status, op.Path)
}

// call runs one connect/send/receive/close cycle against the peer and
// returns the reply body.
func (r *Redirector) call(ctx context.Context, peer *topology.Peer, procedure uint32, body []byte, path string) ([]byte, error) {
	conn, err := net.DialTimeout("tcp", peer.Address, r.dialTimeout)
	if err != nil {
		return nil, driver.NewError(driver.CodeConnect,
			fmt.Sprintf("connect to %s: %v", peer.Address, err), path)
	}
	defer conn.Close()

	// The caller's context is the only call deadline; without one the call
	// blocks until the reply or connection teardown.
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, driver.NewError(driver.CodeConnect, err.Error(), path)
		}
	}

	xid := r.xid.Add(1)

	frame, err := rpc.MakeCall(xid, resource.Program, resource.ProgramVersion, procedure, body)
	if err != nil {
		return nil, driver.NewError(driver.CodeIO, err.Error(), path)
	}

	if _, err := conn.Write(frame); err != nil {
		return nil, driver.NewError(driver.CodeConnect,
			fmt.Sprintf("send to %s: %v", peer.Address, err), path)
	}

	message, err := rpc.ReadMessage(conn)
	if err != nil {
		return nil, driver.NewError(driver.CodeConnect,
			fmt.Sprintf("receive from %s: %v", peer.Address, err), path)
	}

	reply, data, err := rpc.ReadReply(message)
	if err != nil {
		return nil, driver.NewError(driver.CodeIO, err.Error(), path)
	}

	if reply.XID != xid {
		return nil, driver.NewError(driver.CodeIO,
			fmt.Sprintf("reply XID 0x%x does not match call XID 0x%x", reply.XID, xid), path)
	}
	if reply.ReplyState != rpc.MsgAccepted || reply.AcceptStat != rpc.Success {
		return nil, driver.NewError(driver.CodeIO,
			fmt.Sprintf("peer %s rejected call: state=%d accept=%d",
				peer.Address, reply.ReplyState, reply.AcceptStat), path)
	}

	return data, nil
}
