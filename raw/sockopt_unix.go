//go:build darwin || linux || freebsd

package raw

import (
	"fmt"
	"syscall"

	"github.com/hadi77ir/go-logging"
	"golang.org/x/sys/unix"

	"github.com/hadi77ir/go-mcast/log"
)

// reuseControl lets several sockets on this host bind the same port.
// SO_REUSEPORT is best effort; SO_REUSEADDR alone is enough for multicast on Linux.
func reuseControl(_, _ string, c syscall.RawConn) error {
	var serr, perr error
	if err := c.Control(func(fd uintptr) {
		serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
		perr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	}); err != nil {
		return err
	}
	if perr != nil {
		log.Log(logging.DebugLevel, fmt.Sprintf("SO_REUSEPORT unavailable: %s", perr))
	}
	return serr
}

func InspectReadBuffer(c syscall.RawConn) (int, error) {
	var size int
	var serr error
	if err := c.Control(func(fd uintptr) {
		size, serr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF)
	}); err != nil {
		return 0, err
	}
	return size, serr
}

func InspectWriteBuffer(c syscall.RawConn) (int, error) {
	var size int
	var serr error
	if err := c.Control(func(fd uintptr) {
		size, serr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF)
	}); err != nil {
		return 0, err
	}
	return size, serr
}
