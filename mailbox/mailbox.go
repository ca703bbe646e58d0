// Package mailbox implements a single-slot holding area for one byte buffer,
// shared between application goroutines and a background I/O goroutine.
//
// Access to the slot is guarded by an exclusion lock that supports timed
// acquisition. Timing is coordinated separately through a signal that wakes
// every waiter at once, so nobody holds the data lock while waiting for an
// event. A deposit made before the previous one was consumed replaces it.
package mailbox

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/valyala/bytebufferpool"
	"golang.org/x/sync/semaphore"
)

var (
	ErrClosed   = errors.New("mailbox: closed")
	ErrTooLarge = errors.New("mailbox: buffer exceeds slot capacity")
)

var slotPool = &bytebufferpool.Pool{}

// Mailbox is a capacity-one buffer. The zero value is not usable; call New.
type Mailbox struct {
	lock     *semaphore.Weighted
	capacity int

	// guarded by lock
	slot   *bytebufferpool.ByteBuffer
	length int

	sigMu sync.Mutex
	sigCh chan struct{}
}

// New returns an empty mailbox whose slot holds at most capacity bytes.
func New(capacity int) *Mailbox {
	if capacity < 0 {
		capacity = 0
	}
	slot := slotPool.Get()
	if cap(slot.B) < capacity {
		slot.B = make([]byte, capacity)
	}
	slot.B = slot.B[:capacity]
	return &Mailbox{
		lock:     semaphore.NewWeighted(1),
		capacity: capacity,
		slot:     slot,
		sigCh:    make(chan struct{}),
	}
}

// Capacity returns the maximum number of bytes the slot can hold.
func (m *Mailbox) Capacity() int {
	return m.capacity
}

// TryAcquire attempts to take the exclusion lock within timeout.
// A timeout of zero or less fails immediately if the lock is held.
func (m *Mailbox) TryAcquire(timeout time.Duration) bool {
	if m.lock.TryAcquire(1) {
		return true
	}
	if timeout <= 0 {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return m.lock.Acquire(ctx, 1) == nil
}

// TryAcquireContext attempts to take the exclusion lock before ctx is done.
func (m *Mailbox) TryAcquireContext(ctx context.Context) bool {
	if m.lock.TryAcquire(1) {
		return true
	}
	return m.lock.Acquire(ctx, 1) == nil
}

// Acquire takes the exclusion lock, waiting as long as needed.
func (m *Mailbox) Acquire() {
	_ = m.lock.Acquire(context.Background(), 1)
}

// Release gives the exclusion lock back. It panics if the lock is not held.
func (m *Mailbox) Release() {
	m.lock.Release(1)
}

// Notify wakes every goroutine currently waiting for the signal.
func (m *Mailbox) Notify() {
	m.sigMu.Lock()
	close(m.sigCh)
	m.sigCh = make(chan struct{})
	m.sigMu.Unlock()
}

// Signal returns a channel that is closed by the next Notify.
// Taking the channel before inspecting the slot means a Notify that lands in
// between is never missed.
func (m *Mailbox) Signal() <-chan struct{} {
	m.sigMu.Lock()
	ch := m.sigCh
	m.sigMu.Unlock()
	return ch
}

// WaitForSignal blocks until Notify is called or timeout elapses and reports
// whether it was woken by Notify. Callers must re-check the slot afterwards.
func (m *Mailbox) WaitForSignal(timeout time.Duration) bool {
	ch := m.Signal()
	if timeout <= 0 {
		select {
		case <-ch:
			return true
		default:
			return false
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ch:
		return true
	case <-timer.C:
		return false
	}
}

// WaitContext is WaitForSignal bounded by ctx instead of a timeout.
func (m *Mailbox) WaitContext(ctx context.Context) bool {
	select {
	case <-m.Signal():
		return true
	case <-ctx.Done():
		return false
	}
}

// The methods below require the exclusion lock to be held.

// Len returns the number of valid bytes in the slot. Zero means empty.
func (m *Mailbox) Len() int {
	return m.length
}

// Bytes returns the valid part of the slot. The slice aliases the slot and
// is only valid while the lock is held.
func (m *Mailbox) Bytes() []byte {
	if m.slot == nil {
		return nil
	}
	return m.slot.B[:m.length]
}

// Store copies p into the slot, replacing any unconsumed content.
// superseded reports whether unconsumed content was replaced.
func (m *Mailbox) Store(p []byte) (superseded bool, err error) {
	if m.slot == nil {
		return false, ErrClosed
	}
	if len(p) > m.capacity {
		return false, ErrTooLarge
	}
	superseded = m.length > 0
	m.length = copy(m.slot.B, p)
	return superseded, nil
}

// Take copies at most len(dst) bytes of the slot into dst, marks the slot
// consumed and returns the number of bytes copied.
func (m *Mailbox) Take(dst []byte) int {
	n := copy(dst, m.Bytes())
	m.length = 0
	return n
}

// TakeBytes returns a copy of the slot content and marks it consumed.
// It returns nil when the slot is empty.
func (m *Mailbox) TakeBytes() []byte {
	if m.length == 0 {
		return nil
	}
	out := make([]byte, m.length)
	m.Take(out)
	return out
}

// Reset marks the slot consumed without reading it.
func (m *Mailbox) Reset() {
	m.length = 0
}

// Close releases the slot buffer. Later stores fail with ErrClosed.
// Close takes the lock itself and must not be called with it held.
func (m *Mailbox) Close() {
	m.Acquire()
	if m.slot != nil {
		slotPool.Put(m.slot)
		m.slot = nil
		m.length = 0
	}
	m.Release()
}
