//go:build unix

// Package sysretry re-issues interrupted system calls and converts failures
// into structured I/O errors.
package sysretry

import (
	"golang.org/x/sys/unix"

	"github.com/wippyai/netsock/errors"
)

// Do calls fn until it returns something other than EINTR. A failure is
// returned as an *errors.Error carrying op and the errno.
func Do(phase errors.Phase, op string, fn func() (int, error)) (int, error) {
	for {
		n, err := fn()
		if err == nil {
			return n, nil
		}
		if err == unix.EINTR {
			continue
		}
		return -1, errors.Syscall(phase, op, err)
	}
}

