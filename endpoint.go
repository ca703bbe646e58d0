package mcast

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hadi77ir/go-logging"
	"github.com/pion/transport/v3/deadline"

	"github.com/hadi77ir/go-mcast/log"
	"github.com/hadi77ir/go-mcast/mailbox"
	"github.com/hadi77ir/go-mcast/types"
)

type endpointState int32

const (
	stateOpening endpointState = iota
	stateRunning
	stateClosing
	stateClosed
)

func (s endpointState) String() string {
	switch s {
	case stateOpening:
		return "opening"
	case stateRunning:
		return "running"
	case stateClosing:
		return "closing"
	case stateClosed:
		return "closed"
	default:
		return fmt.Sprintf("invalid state: %d", int32(s))
	}
}

// endpoint carries the lifecycle shared by Broadcaster and Listener: one
// background goroutine that owns the socket for its whole life, a mailbox,
// and a cooperative shutdown that is joined by close.
type endpoint struct {
	name   string
	port   int
	logger logging.Logger

	mb *mailbox.Mailbox

	state atomic.Int32 // endpointState

	readyCh chan struct{}
	doneCh  chan struct{}

	doneOnce sync.Once
	loopWG   sync.WaitGroup

	errOpen  atomic.Value // error
	errClose atomic.Value // error

	deadline *deadline.Deadline
}

func newEndpoint(name string, port int, logger logging.Logger) *endpoint {
	return &endpoint{
		name:     name,
		port:     port,
		logger:   logger,
		mb:       mailbox.New(MaxPayloadSize),
		readyCh:  make(chan struct{}),
		doneCh:   make(chan struct{}),
		deadline: deadline.New(),
	}
}

func (e *endpoint) logAt(level logging.Level, args ...interface{}) {
	if e.logger != nil {
		log.LogTo(e.logger, level, args...)
		return
	}
	log.Log(level, args...)
}

// start runs loop on the socket returned by open in a new goroutine. open is
// called from that goroutine, so start never blocks on the socket.
func (e *endpoint) start(open func(ctx context.Context) (types.RawConn, error), loop func(types.RawConn)) {
	e.loopWG.Add(1)
	go func() {
		defer e.loopWG.Done()
		defer e.state.Store(int32(stateClosed))

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			select {
			case <-e.doneCh:
			case <-e.readyCh:
			}
			cancel()
		}()
		conn, err := open(ctx)
		if err != nil {
			e.fail(err)
			return
		}
		if conn == nil {
			e.fail(types.ErrUnexpectedNil)
			return
		}
		if !e.state.CompareAndSwap(int32(stateOpening), int32(stateRunning)) {
			// closed while the socket was being opened
			e.closeConn(conn)
			close(e.readyCh)
			return
		}
		e.logAt(logging.InfoLevel, fmt.Sprintf("%s on port %d running", e.name, e.port))
		close(e.readyCh)

		loop(conn)

		e.closeConn(conn)
		e.logAt(logging.InfoLevel, fmt.Sprintf("%s on port %d stopped", e.name, e.port))
	}()
}

func (e *endpoint) fail(err error) {
	e.errOpen.Store(err)
	e.state.Store(int32(stateClosed))
	e.logAt(logging.WarnLevel, fmt.Sprintf("%s on port %d failed to open: %s", e.name, e.port, err))
	close(e.readyCh)
}

func (e *endpoint) closeConn(conn types.RawConn) {
	if err := conn.Close(); err != nil {
		e.errClose.Store(err)
	}
}

// Ready is closed once the socket is open and the loop is running, or once
// opening failed.
func (e *endpoint) Ready() <-chan struct{} {
	return e.readyCh
}

// Err returns the error that prevented the endpoint from opening, if any.
func (e *endpoint) Err() error {
	err, _ := e.errOpen.Load().(error)
	return err
}

// Port returns the multicast port of the endpoint.
func (e *endpoint) Port() int {
	return e.port
}

func (e *endpoint) closed() bool {
	switch endpointState(e.state.Load()) {
	case stateClosing, stateClosed:
		return true
	}
	return false
}

// shutdown requests the loop to stop, waits for it and releases the mailbox.
// Only the first call does any work or returns a non-nil error.
func (e *endpoint) shutdown(wake func()) error {
	var err error
	e.doneOnce.Do(func() {
		if !e.state.CompareAndSwap(int32(stateRunning), int32(stateClosing)) {
			e.state.CompareAndSwap(int32(stateOpening), int32(stateClosing))
		}
		close(e.doneCh)
		if wake != nil {
			wake()
		}
		e.loopWG.Wait()
		e.state.Store(int32(stateClosed))
		e.mb.Close()
		if errClose, ok := e.errClose.Load().(error); ok {
			err = errClose
		}
	})
	return err
}

// waitContext derives a context from parent that is also done when timeout
// elapses, the endpoint deadline passes or the endpoint is closed.
func (e *endpoint) waitContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var ctx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	go func() {
		select {
		case <-e.deadline.Done():
		case <-e.doneCh:
		case <-ctx.Done():
		}
		cancel()
	}()
	return ctx, cancel
}

func (e *endpoint) deadlineExceeded() bool {
	select {
	case <-e.deadline.Done():
		return true
	default:
		return false
	}
}
