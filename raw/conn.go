package raw

import (
	"io"
	"net"

	"github.com/hadi77ir/go-mcast/types"
)

type remoteAddrSock interface {
	RemoteAddr() net.Addr
}

var _ remoteAddrSock = &net.UDPConn{}

type connectedConn interface {
	io.ReadWriteCloser
}

var _ connectedConn = &net.UDPConn{}

// The BasicConn is the most trivial implementation of a RawConn.
// It reads and writes single datagrams on the underlying net.PacketConn.
type BasicConn struct {
	net.PacketConn
	isConnected bool
}

var _ types.RawConn = &BasicConn{}

// NewBasicConn wraps pc. A connected socket (one with a remote address) is
// written with Write and ignores the destination passed to WritePacket.
func NewBasicConn(pc net.PacketConn) *BasicConn {
	isConnected := false
	if ra, ok := pc.(remoteAddrSock); ok && ra.RemoteAddr() != nil {
		isConnected = true
	}
	return &BasicConn{PacketConn: pc, isConnected: isConnected}
}

func (c *BasicConn) ReadPacket(b []byte) (bytesRead int, remoteAddr net.Addr, err error) {
	if cc, ok := c.PacketConn.(connectedConn); c.isConnected && ok {
		bytesRead, err = cc.Read(b)
	} else {
		bytesRead, remoteAddr, err = c.PacketConn.ReadFrom(b)
	}
	if err != nil {
		return 0, nil, err
	}
	return
}

func (c *BasicConn) WritePacket(b []byte, addr net.Addr) (n int, err error) {
	if c.isConnected {
		if cc, ok := c.PacketConn.(connectedConn); ok {
			return cc.Write(b)
		}
	}
	if addr == nil {
		return 0, types.ErrUnexpectedNil
	}
	return c.PacketConn.WriteTo(b, addr)
}
