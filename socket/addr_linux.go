//go:build linux || solaris || illumos

package socket

import "golang.org/x/sys/unix"

func setFamily4(sa *unix.RawSockaddrInet4) {
	sa.Family = unix.AF_INET
}

func setFamily6(sa *unix.RawSockaddrInet6) {
	sa.Family = unix.AF_INET6
}
