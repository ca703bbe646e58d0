package mcast

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/hadi77ir/go-logging"
	"github.com/valyala/bytebufferpool"

	"github.com/hadi77ir/go-mcast/raw"
	"github.com/hadi77ir/go-mcast/types"
)

var readPool = &bytebufferpool.Pool{}

// ListenConfig stores options for opening a Listener.
type ListenConfig struct {
	// Group is the multicast group to join. Nil means DefaultGroup.
	Group net.IP

	// Interfaces to join the group on. Empty joins on the system default.
	Interfaces []net.Interface

	// ReadBufferSize sets the size of the operating system's receive buffer
	// associated with the socket.
	ReadBufferSize int

	// PollInterval bounds each socket wait and thus the latency of Close.
	// Zero means DefaultPollInterval.
	PollInterval time.Duration

	// Logger overrides the package default logger for this endpoint.
	Logger logging.Logger
}

func (lc *ListenConfig) group() net.IP {
	if lc.Group == nil {
		return DefaultGroup
	}
	return lc.Group
}

func (lc *ListenConfig) pollInterval() time.Duration {
	if lc.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return lc.PollInterval
}

// Listener keeps the most recent datagram received on a multicast group.
// A datagram that arrives before the previous one was read replaces it.
type Listener struct {
	*endpoint

	pollInterval time.Duration
	stats        listenerCounters
}

// Open creates a Listener for port and returns immediately; the socket is
// opened, bound and joined to the group by the background goroutine.
func (lc *ListenConfig) Open(port int) *Listener {
	if lc == nil {
		lc = &ListenConfig{}
	}
	l := newListener(port, lc)
	if port < 0 || port > 65535 {
		l.fail(types.ErrInvalidPort)
		return l
	}
	cfg := raw.ReceiverConfig{
		Group:          lc.group(),
		Port:           port,
		Interfaces:     lc.Interfaces,
		ReadBufferSize: lc.ReadBufferSize,
	}
	l.start(func(ctx context.Context) (types.RawConn, error) {
		return raw.OpenReceiver(ctx, cfg)
	}, l.loop)
	return l
}

// OpenListener opens a Listener with default options. A negative port is
// taken as its absolute value, matching OpenBroadcaster's loopback form.
func OpenListener(port int) *Listener {
	if port < 0 {
		port = -port
	}
	return (&ListenConfig{}).Open(port)
}

// WrapListener runs a Listener over an already opened socket. The Listener
// owns conn from now on and closes it on Close.
func WrapListener(conn types.RawConn, lc *ListenConfig) *Listener {
	if lc == nil {
		lc = &ListenConfig{}
	}
	if conn == nil {
		l := newListener(0, lc)
		l.fail(types.ErrUnexpectedNil)
		return l
	}
	port := 0
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		port = addr.Port
	}
	l := newListener(port, lc)
	l.start(func(context.Context) (types.RawConn, error) {
		return conn, nil
	}, l.loop)
	return l
}

func newListener(port int, lc *ListenConfig) *Listener {
	return &Listener{
		endpoint:     newEndpoint("listener", port, lc.Logger),
		pollInterval: lc.pollInterval(),
	}
}

// Receive returns the most recent unread datagram. If there is none it waits
// up to timeout for one to arrive. It returns nil when nothing arrived in
// time or another caller took the datagram first.
func (l *Listener) Receive(timeout time.Duration) []byte {
	var out []byte
	_ = l.receive(context.Background(), timeout, timeout > 0, func() int {
		out = l.mb.TakeBytes()
		return len(out)
	})
	return out
}

// ReceiveInto is Receive copying at most len(dst) bytes into dst. It returns
// the number of bytes copied; the rest of a longer datagram is discarded.
func (l *Listener) ReceiveInto(dst []byte, timeout time.Duration) int {
	var n int
	_ = l.receive(context.Background(), timeout, timeout > 0, func() int {
		n = l.mb.Take(dst)
		return n
	})
	return n
}

// ReceiveContext is Receive bounded by ctx. It returns the context error,
// context.DeadlineExceeded for an expired read deadline, or types.ErrClosed
// when nothing was received.
func (l *Listener) ReceiveContext(ctx context.Context) ([]byte, error) {
	var out []byte
	err := l.receive(ctx, 0, true, func() int {
		out = l.mb.TakeBytes()
		return len(out)
	})
	return out, err
}

// receive takes a pending datagram if there is one; otherwise, if wait is
// set, it waits for the next notification and takes whatever is there then.
func (l *Listener) receive(parent context.Context, timeout time.Duration, wait bool, take func() int) error {
	if l.closed() {
		return types.ErrClosed
	}
	sig := l.mb.Signal()
	if l.take(take) {
		return nil
	}
	if !wait || l.deadlineExceeded() {
		return l.waitErr(parent)
	}

	ctx, cancel := l.waitContext(parent, timeout)
	defer cancel()
	var err error
	select {
	case <-sig:
	case <-ctx.Done():
		err = l.waitErr(parent)
		if err == nil {
			err = ctx.Err()
		}
	}
	if l.take(take) {
		return nil
	}
	return err
}

func (l *Listener) take(take func() int) bool {
	l.mb.Acquire()
	n := take()
	l.mb.Release()
	if n > 0 {
		l.stats.delivered.Add(1)
		return true
	}
	return false
}

func (l *Listener) waitErr(parent context.Context) error {
	switch {
	case l.closed():
		return types.ErrClosed
	case l.deadlineExceeded():
		return context.DeadlineExceeded
	default:
		return parent.Err()
	}
}

// SetReadDeadline bounds every Receive wait. A zero time clears it.
func (l *Listener) SetReadDeadline(t time.Time) error {
	l.deadline.Set(t)
	return nil
}

// Stats returns a snapshot of the Listener counters.
func (l *Listener) Stats() ListenerStats {
	return l.stats.snapshot()
}

// Close stops the background loop and waits for it to exit, which takes at
// most one poll interval. Blocked Receive calls return empty.
func (l *Listener) Close() error {
	return l.shutdown(nil)
}

// loop polls the socket with a short deadline so Close is observed even
// without traffic.
func (l *Listener) loop(conn types.RawConn) {
	buf := readPool.Get()
	if cap(buf.B) < MaxPayloadSize {
		buf.B = make([]byte, MaxPayloadSize)
	}
	buf.B = buf.B[:MaxPayloadSize]
	defer readPool.Put(buf)

	for {
		select {
		case <-l.doneCh:
			return
		default:
		}

		if err := conn.SetReadDeadline(time.Now().Add(l.pollInterval)); err != nil {
			if !l.readFailed(err) {
				return
			}
			continue
		}
		n, _, err := conn.ReadPacket(buf.B)
		if err != nil {
			if types.IsTimeout(err) {
				continue
			}
			if !l.readFailed(err) {
				return
			}
			continue
		}
		if n == 0 {
			continue
		}

		l.mb.Acquire()
		overwritten, err := l.mb.Store(buf.B[:n])
		l.mb.Release()
		if err != nil {
			continue
		}
		l.stats.received.Add(1)
		if overwritten {
			l.stats.overwritten.Add(1)
		}
		l.mb.Notify()
	}
}

// readFailed records a steady-state socket error and pauses before the next
// attempt. It returns false when the loop should stop.
func (l *Listener) readFailed(err error) bool {
	if errors.Is(err, net.ErrClosed) {
		return false
	}
	l.stats.readErrors.Add(1)
	l.logAt(logging.DebugLevel, fmt.Sprintf("listener on port %d read failed: %s", l.port, err))
	timer := time.NewTimer(l.pollInterval)
	defer timer.Stop()
	select {
	case <-l.doneCh:
		return false
	case <-timer.C:
		return true
	}
}
