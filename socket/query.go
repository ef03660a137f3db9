//go:build unix

package socket

import (
	"golang.org/x/sys/unix"

	"github.com/wippyai/netsock/errors"
	"github.com/wippyai/netsock/socket/internal/sysretry"
)

// IsNonBlocking reports whether O_NONBLOCK is set on fd. It fails if fd is
// not an open descriptor.
func IsNonBlocking(fd FD) (bool, error) {
	flags, err := sysretry.Do(errors.PhaseQuery, "fcntl", func() (int, error) {
		return fcntlFunc(fd.Uintptr(), unix.F_GETFL, 0)
	})
	if err != nil {
		return false, err
	}
	return flags&unix.O_NONBLOCK == unix.O_NONBLOCK, nil
}

// IsCloseOnExec reports whether FD_CLOEXEC is set on fd.
func IsCloseOnExec(fd FD) (bool, error) {
	flags, err := sysretry.Do(errors.PhaseQuery, "fcntl", func() (int, error) {
		return fcntlFunc(fd.Uintptr(), unix.F_GETFD, 0)
	})
	if err != nil {
		return false, err
	}
	return flags&unix.FD_CLOEXEC != 0, nil
}

// Family returns the address family of the socket fd.
func Family(fd FD) (int, error) {
	return sysretry.Do(errors.PhaseQuery, "getsockname", func() (int, error) {
		sa, err := unix.Getsockname(fd.Int())
		if err != nil {
			return -1, err
		}
		switch sa.(type) {
		case *unix.SockaddrInet4:
			return unix.AF_INET, nil
		case *unix.SockaddrInet6:
			return unix.AF_INET6, nil
		case *unix.SockaddrUnix:
			return unix.AF_UNIX, nil
		}
		return unix.AF_UNSPEC, nil
	})
}

// SocketType returns the base type of the socket fd.
func SocketType(fd FD) (Type, error) {
	t, err := sysretry.Do(errors.PhaseQuery, "getsockopt", func() (int, error) {
		return unix.GetsockoptInt(fd.Int(), unix.SOL_SOCKET, unix.SO_TYPE)
	})
	if err != nil {
		return 0, err
	}
	return Type(t), nil
}

// Close closes fd. Unlike the other calls it is not retried on EINTR: the
// descriptor is released either way and may already have been reused.
func Close(fd FD) error {
	if err := closeFunc(fd.Int()); err != nil {
		return errors.Syscall(errors.PhaseClose, "close", err)
	}
	return nil
}
