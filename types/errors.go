package types

import "errors"

var (
	ErrClosed          = errors.New("mcast: endpoint closed")
	ErrPayloadTooLarge = errors.New("mcast: payload too large for a single datagram")
	ErrBusy            = errors.New("mcast: send in progress")
	ErrInvalidPort     = errors.New("mcast: invalid port")
	ErrNoGroup         = errors.New("mcast: could not join multicast group")
	ErrUnexpectedNil   = errors.New("mcast: unexpected nil")
)
