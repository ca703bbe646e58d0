package raw

import (
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/hadi77ir/go-logging"

	"github.com/hadi77ir/go-mcast/log"
)

type bufferOps struct {
	name     string
	set      func(int) error
	inspect  func(syscall.RawConn) (int, error)
	forceSet func(syscall.RawConn, int) error
}

// SetReceiveBuffer grows the kernel receive buffer of c to at least size bytes.
func SetReceiveBuffer(c net.PacketConn, size int) error {
	conn, ok := c.(interface{ SetReadBuffer(int) error })
	if !ok {
		return errors.New("connection doesn't allow setting of receive buffer size. Not a *net.UDPConn?")
	}
	return setBuffer(c, size, bufferOps{
		name:     "receive",
		set:      conn.SetReadBuffer,
		inspect:  InspectReadBuffer,
		forceSet: forceSetReceiveBuffer,
	})
}

// SetSendBuffer grows the kernel send buffer of c to at least size bytes.
func SetSendBuffer(c net.PacketConn, size int) error {
	conn, ok := c.(interface{ SetWriteBuffer(int) error })
	if !ok {
		return errors.New("connection doesn't allow setting of send buffer size. Not a *net.UDPConn?")
	}
	return setBuffer(c, size, bufferOps{
		name:     "send",
		set:      conn.SetWriteBuffer,
		inspect:  InspectWriteBuffer,
		forceSet: forceSetSendBuffer,
	})
}

func setBuffer(c net.PacketConn, want int, ops bufferOps) error {
	var syscallConn syscall.RawConn
	if sc, ok := c.(interface {
		SyscallConn() (syscall.RawConn, error)
	}); ok {
		var err error
		syscallConn, err = sc.SyscallConn()
		if err != nil {
			syscallConn = nil
		}
	}
	// We have no way of checking if increasing the buffer size actually worked.
	if syscallConn == nil {
		return ops.set(want)
	}

	size, err := ops.inspect(syscallConn)
	if err != nil {
		return fmt.Errorf("failed to determine %s buffer size: %w", ops.name, err)
	}
	if size >= want {
		log.Log(logging.DebugLevel, fmt.Sprintf("Conn has %s buffer of %d kiB (wanted: at least %d kiB)", ops.name, size/1024, want/1024))
		return nil
	}
	// Ignore the error. We check if we succeeded by querying the buffer size afterward.
	_ = ops.set(want)
	newSize, err := ops.inspect(syscallConn)
	if err == nil && newSize < want {
		// Try again with the FORCE variant on Linux
		_ = ops.forceSet(syscallConn, want)
		newSize, err = ops.inspect(syscallConn)
	}
	if err != nil {
		return fmt.Errorf("failed to determine %s buffer size: %w", ops.name, err)
	}
	if newSize == size {
		return fmt.Errorf("failed to increase %s buffer size (wanted: %d kiB, got %d kiB)", ops.name, want/1024, newSize/1024)
	}
	if newSize < want {
		return fmt.Errorf("failed to sufficiently increase %s buffer size (was: %d kiB, wanted: %d kiB, got: %d kiB)", ops.name, size/1024, want/1024, newSize/1024)
	}
	log.Log(logging.DebugLevel, fmt.Sprintf("Increased %s buffer size to %d kiB", ops.name, newSize/1024))
	return nil
}
