//go:build unix

package timelog

import (
	"errors"
	"os"
	"syscall"
)

// processAlive reports whether pid names a running process. A process owned
// by another user still counts.
func processAlive(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	defer p.Release()
	err = p.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, os.ErrPermission)
}
