//go:build !unix

package timelog

import "os"

// processAlive reports whether pid names a running process. On Windows
// FindProcess fails for unknown PIDs; elsewhere the lock is assumed held.
func processAlive(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	p.Release()
	return true
}
