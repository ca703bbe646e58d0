//go:build !linux

package raw

import (
	"errors"
	"syscall"
)

func forceSetReceiveBuffer(syscall.RawConn, int) error { return errors.ErrUnsupported }
func forceSetSendBuffer(syscall.RawConn, int) error    { return errors.ErrUnsupported }
