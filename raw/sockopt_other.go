//go:build !darwin && !linux && !freebsd && !windows

package raw

import (
	"errors"
	"syscall"
)

func reuseControl(string, string, syscall.RawConn) error {
	// no-op on unsupported platforms
	return nil
}

func InspectReadBuffer(syscall.RawConn) (int, error)  { return 0, errors.ErrUnsupported }
func InspectWriteBuffer(syscall.RawConn) (int, error) { return 0, errors.ErrUnsupported }
