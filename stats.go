package mcast

import "sync/atomic"

// BroadcasterStats counts what happened to submitted buffers.
type BroadcasterStats struct {
	Submitted  uint64 // accepted into the mailbox
	Rejected   uint64 // busy, too large, closed or past the deadline
	Superseded uint64 // overwrote a buffer that was never sent
	Sent       uint64
	SendErrors uint64
}

// ListenerStats counts what happened to received datagrams.
type ListenerStats struct {
	Received    uint64
	Overwritten uint64 // replaced an unread datagram
	Delivered   uint64 // handed to a Receive caller
	ReadErrors  uint64
}

type broadcasterCounters struct {
	submitted, rejected, superseded, sent, sendErrors atomic.Uint64
}

func (c *broadcasterCounters) snapshot() BroadcasterStats {
	return BroadcasterStats{
		Submitted:  c.submitted.Load(),
		Rejected:   c.rejected.Load(),
		Superseded: c.superseded.Load(),
		Sent:       c.sent.Load(),
		SendErrors: c.sendErrors.Load(),
	}
}

type listenerCounters struct {
	received, overwritten, delivered, readErrors atomic.Uint64
}

func (c *listenerCounters) snapshot() ListenerStats {
	return ListenerStats{
		Received:    c.received.Load(),
		Overwritten: c.overwritten.Load(),
		Delivered:   c.delivered.Load(),
		ReadErrors:  c.readErrors.Load(),
	}
}
