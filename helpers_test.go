package mcast

import (
	"bytes"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hadi77ir/go-mcast/types"
)

var fakeRemote = &net.UDPAddr{IP: net.IPv4(10, 0, 0, 2), Port: 40000}

// fakeConn is an in-memory RawConn that honours read deadlines.
type fakeConn struct {
	mu           sync.Mutex
	readDeadline time.Time

	inbound chan []byte
	writes  chan []byte

	// writeGate, if set, makes each write wait for a token.
	writeGate chan struct{}
	// writing, if set, receives a value as each write starts.
	writing chan struct{}

	closed    chan struct{}
	closeOnce sync.Once
	closes    atomic.Int32
}

var _ types.RawConn = &fakeConn{}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan []byte, 16),
		writes:  make(chan []byte, 1024),
		closed:  make(chan struct{}),
	}
}

func (c *fakeConn) ReadPacket(b []byte) (int, net.Addr, error) {
	c.mu.Lock()
	dl := c.readDeadline
	c.mu.Unlock()

	var timeout <-chan time.Time
	if !dl.IsZero() {
		timer := time.NewTimer(time.Until(dl))
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case p := <-c.inbound:
		return copy(b, p), fakeRemote, nil
	case <-timeout:
		return 0, nil, os.ErrDeadlineExceeded
	case <-c.closed:
		return 0, nil, net.ErrClosed
	}
}

func (c *fakeConn) WritePacket(b []byte, _ net.Addr) (int, error) {
	if c.writing != nil {
		c.writing <- struct{}{}
	}
	if c.writeGate != nil {
		select {
		case <-c.writeGate:
		case <-c.closed:
			return 0, net.ErrClosed
		}
	}
	c.writes <- bytes.Clone(b)
	return len(b), nil
}

func (c *fakeConn) LocalAddr() net.Addr {
	return &net.UDPAddr{IP: net.IPv4zero, Port: 17436}
}

func (c *fakeConn) SetReadDeadline(t time.Time) error {
	c.mu.Lock()
	c.readDeadline = t
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) Close() error {
	c.closes.Add(1)
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

var testDst = &net.UDPAddr{IP: DefaultGroup, Port: 17436}
