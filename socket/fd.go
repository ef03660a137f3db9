package socket

import "strconv"

// FD is a raw socket descriptor. It does not own the descriptor.
type FD int

// InvalidFD is returned alongside every error.
const InvalidFD FD = -1

// Int returns the descriptor as the int taken by golang.org/x/sys/unix.
func (fd FD) Int() int { return int(fd) }

// Uintptr returns the descriptor as a syscall argument.
func (fd FD) Uintptr() uintptr { return uintptr(fd) }

// Valid reports whether fd is non-negative.
func (fd FD) Valid() bool { return fd >= 0 }

func (fd FD) String() string {
	return "fd(" + strconv.Itoa(int(fd)) + ")"
}
