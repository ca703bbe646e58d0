// Package mcast exchanges byte buffers over UDP multicast with "latest value
// wins" semantics. A Broadcaster sends the most recently submitted buffer and
// a Listener keeps the most recently received datagram; anything older that
// was not yet sent or read is dropped.
package mcast

import (
	"net"
	"time"
)

const (
	// MaxPayloadSize is the largest datagram payload over IPv4 UDP and the
	// capacity of every mailbox slot, on both the send and receive side.
	MaxPayloadSize = 65507

	// DefaultHops lets datagrams cross two routers, enough to reach other
	// listening hosts on a typical lab network.
	DefaultHops = 2

	// DefaultPollInterval bounds how long a listener takes to notice Close.
	DefaultPollInterval = 100 * time.Millisecond
)

// DefaultGroup is the multicast group every endpoint uses unless configured otherwise.
var DefaultGroup = net.IPv4(239, 12, 13, 14)
