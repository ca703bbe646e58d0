package types

import (
	"errors"
	"io"
	"os"
	"net"
	"time"
)

// RawConn is the socket surface seen by an endpoint's background loop.
// Nothing but that loop may touch it.
type RawConn interface {
	// ReadPacket reads a single datagram into b.
	ReadPacket(b []byte) (bytesRead int, remoteAddr net.Addr, err error)
	// WritePacket writes b as a single datagram to addr.
	WritePacket(b []byte, addr net.Addr) (bytesWritten int, err error)
	LocalAddr() net.Addr
	SetReadDeadline(time.Time) error
	io.Closer
}

// IsTimeout reports whether err is a deadline expiry from a RawConn read.
func IsTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
