package mcast

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/hadi77ir/go-logging"

	"github.com/hadi77ir/go-mcast/mailbox"
	"github.com/hadi77ir/go-mcast/raw"
	"github.com/hadi77ir/go-mcast/types"
)

// BroadcastConfig stores options for opening a Broadcaster.
type BroadcastConfig struct {
	// Group is the multicast destination. Nil means DefaultGroup.
	Group net.IP

	// Hops is the multicast time-to-live. Zero means DefaultHops.
	// It is ignored when Loopback is set.
	Hops int

	// Loopback keeps every datagram on the local host (hop count zero).
	Loopback bool

	// Interface selects the outgoing interface. Nil uses the system default.
	Interface *net.Interface

	// WriteBufferSize sets the size of the operating system's send buffer
	// associated with the socket.
	WriteBufferSize int

	// Logger overrides the package default logger for this endpoint.
	Logger logging.Logger
}

func (bc *BroadcastConfig) group() net.IP {
	if bc.Group == nil {
		return DefaultGroup
	}
	return bc.Group
}

func (bc *BroadcastConfig) hops() int {
	switch {
	case bc.Loopback:
		return 0
	case bc.Hops <= 0:
		return DefaultHops
	default:
		return bc.Hops
	}
}

// Broadcaster transmits the latest submitted buffer to a multicast group.
// Buffers submitted while an earlier one is still unsent replace it.
type Broadcaster struct {
	*endpoint

	dst   *net.UDPAddr
	stats broadcasterCounters
}

// Open creates a Broadcaster for port and returns immediately; the socket is
// opened by the background goroutine. An invalid port yields a Broadcaster
// that is already closed and reports types.ErrInvalidPort from Err.
func (bc *BroadcastConfig) Open(port int) *Broadcaster {
	if bc == nil {
		bc = &BroadcastConfig{}
	}
	b := newBroadcaster(port, bc)
	if port < 0 || port > 65535 {
		b.fail(types.ErrInvalidPort)
		return b
	}
	cfg := raw.SenderConfig{
		TTL:             bc.hops(),
		Interface:       bc.Interface,
		WriteBufferSize: bc.WriteBufferSize,
	}
	b.start(func(ctx context.Context) (types.RawConn, error) {
		return raw.OpenSender(ctx, cfg)
	}, b.loop)
	return b
}

// OpenBroadcaster opens a Broadcaster with default options. A negative port
// selects loopback mode on port -port.
func OpenBroadcaster(port int) *Broadcaster {
	bc := &BroadcastConfig{}
	if port < 0 {
		port = -port
		bc.Loopback = true
	}
	return bc.Open(port)
}

// WrapBroadcaster runs a Broadcaster over an already opened socket, sending
// to dst. The Broadcaster owns conn from now on and closes it on Close.
func WrapBroadcaster(conn types.RawConn, dst *net.UDPAddr, bc *BroadcastConfig) *Broadcaster {
	if bc == nil {
		bc = &BroadcastConfig{}
	}
	if dst == nil {
		b := newBroadcaster(0, bc)
		b.fail(types.ErrUnexpectedNil)
		return b
	}
	b := newBroadcaster(dst.Port, bc)
	b.dst = dst
	if conn == nil {
		b.fail(types.ErrUnexpectedNil)
		return b
	}
	b.start(func(context.Context) (types.RawConn, error) {
		return conn, nil
	}, b.loop)
	return b
}

func newBroadcaster(port int, bc *BroadcastConfig) *Broadcaster {
	return &Broadcaster{
		endpoint: newEndpoint("broadcaster", port, bc.Logger),
		dst:      &net.UDPAddr{IP: bc.group(), Port: port},
	}
}

// Submit queues p for transmission and reports whether it was accepted.
// It fails at once if p is larger than MaxPayloadSize. Otherwise it waits up
// to timeout for a transmission in progress to finish; a timeout of zero
// fails immediately if one is.
func (b *Broadcaster) Submit(p []byte, timeout time.Duration) bool {
	if len(p) > MaxPayloadSize {
		b.stats.rejected.Add(1)
		return false
	}
	if b.closed() || b.deadlineExceeded() {
		b.stats.rejected.Add(1)
		return false
	}
	if !b.acquire(context.Background(), timeout, timeout <= 0) {
		b.stats.rejected.Add(1)
		return false
	}
	return b.deposit(p) == nil
}

// SubmitContext is Submit bounded by ctx instead of a timeout; it waits for a
// transmission in progress until ctx is done. It returns
// types.ErrPayloadTooLarge, types.ErrClosed, context.DeadlineExceeded for an
// expired write deadline, types.ErrBusy when ctx ends first, or nil.
func (b *Broadcaster) SubmitContext(ctx context.Context, p []byte) error {
	if len(p) > MaxPayloadSize {
		b.stats.rejected.Add(1)
		return types.ErrPayloadTooLarge
	}
	if b.closed() {
		b.stats.rejected.Add(1)
		return types.ErrClosed
	}
	if b.deadlineExceeded() || !b.acquire(ctx, 0, false) {
		b.stats.rejected.Add(1)
		switch {
		case b.closed():
			return types.ErrClosed
		case b.deadlineExceeded():
			return context.DeadlineExceeded
		}
		return types.ErrBusy
	}
	return b.deposit(p)
}

func (b *Broadcaster) acquire(parent context.Context, timeout time.Duration, failFast bool) bool {
	if b.mb.TryAcquire(0) {
		return true
	}
	if failFast {
		return false
	}
	ctx, cancel := b.waitContext(parent, timeout)
	defer cancel()
	return b.mb.TryAcquireContext(ctx)
}

// deposit stores p; the mailbox lock must be held and is released.
func (b *Broadcaster) deposit(p []byte) error {
	if b.closed() {
		b.mb.Release()
		b.stats.rejected.Add(1)
		return types.ErrClosed
	}
	superseded, err := b.mb.Store(p)
	b.mb.Release()
	if err != nil {
		b.stats.rejected.Add(1)
		if errors.Is(err, mailbox.ErrTooLarge) {
			return types.ErrPayloadTooLarge
		}
		return types.ErrClosed
	}
	b.stats.submitted.Add(1)
	if superseded {
		b.stats.superseded.Add(1)
	}
	b.mb.Notify()
	return nil
}

// SetWriteDeadline bounds every Submit wait. A zero time clears it.
func (b *Broadcaster) SetWriteDeadline(t time.Time) error {
	b.deadline.Set(t)
	return nil
}

// Destination returns the group address datagrams are sent to.
func (b *Broadcaster) Destination() *net.UDPAddr {
	return b.dst
}

// Stats returns a snapshot of the Broadcaster counters.
func (b *Broadcaster) Stats() BroadcasterStats {
	return b.stats.snapshot()
}

// Close stops the background loop and waits for it to exit. Buffers still
// pending are discarded.
func (b *Broadcaster) Close() error {
	return b.shutdown(b.mb.Notify)
}

// loop sends whatever is in the slot each time it is signalled.
func (b *Broadcaster) loop(conn types.RawConn) {
	for {
		sig := b.mb.Signal()
		b.mb.Acquire()
		if n := b.mb.Len(); n > 0 {
			if _, err := conn.WritePacket(b.mb.Bytes(), b.dst); err != nil {
				b.stats.sendErrors.Add(1)
				b.logAt(logging.DebugLevel, fmt.Sprintf("broadcast of %d bytes to %s failed: %s", n, b.dst, err))
			} else {
				b.stats.sent.Add(1)
			}
			b.mb.Reset()
		}
		b.mb.Release()

		select {
		case <-sig:
		case <-b.doneCh:
			return
		}
		// a wake-up may race with Close
		if b.closed() {
			return
		}
	}
}
