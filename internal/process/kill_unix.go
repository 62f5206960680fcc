//go:build !windows

package process

import (
	"errors"
	"syscall"
)

// KillGroup sends SIGKILL to the process group led by pid, taking the browser's
// renderer and GPU children down with it. A group that is already gone is not an error.
func KillGroup(pid int) error {
	if pid <= 0 {
		return ErrInvalidPID
	}
	err := syscall.Kill(-pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}
