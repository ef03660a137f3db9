//go:build unix

package socket

import "golang.org/x/sys/unix"

// Syscall entry points, swapped out by tests.
var (
	socketFunc func(domain, typ, proto int) (int, error)   = unix.Socket
	fcntlFunc  func(fd uintptr, cmd, arg int) (int, error) = unix.FcntlInt
	closeFunc  func(fd int) error                          = unix.Close
)
