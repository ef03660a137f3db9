//go:build dragonfly || freebsd || linux || netbsd || openbsd

package socket

import (
	"golang.org/x/sys/unix"

	"github.com/wippyai/netsock/errors"
	"github.com/wippyai/netsock/socket/internal/sysretry"
)

const platformStrategy = StrategyAtomic

var atomicCreator creator = atomicSocketCreator{}

type atomicSocketCreator struct{}

func (atomicSocketCreator) create(family int, typ Type) (FD, error) {
	s, err := sysretry.Do(errors.PhaseCreate, "socket", func() (int, error) {
		return socketFunc(family, int(typ)|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	})
	if err != nil {
		return InvalidFD, err
	}
	return FD(s), nil
}
