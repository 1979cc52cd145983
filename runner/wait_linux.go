package runner

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Wait blocks until the child pid terminates, reaps it and returns its
// Result. Resource usage covers the child and its reaped descendants.
func Wait(pid int) (Result, error) {
	var (
		ws unix.WaitStatus
		ru unix.Rusage
	)
	_, err := unix.Wait4(pid, &ws, 0, &ru)
	for err == unix.EINTR {
		_, err = unix.Wait4(pid, &ws, 0, &ru)
	}
	if err != nil {
		return Result{}, fmt.Errorf("wait4(%d): %w", pid, err)
	}
	return NewResult(ws, &ru), nil
}
