//go:build unix

package socket

import (
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/wippyai/netsock/errors"
	"github.com/wippyai/netsock/socket/internal/sysretry"
)

// twoStepCreator is used where socket(2) has no modifier bits. Between
// socket(2) and fcntl(2) the descriptor is blocking and inheritable; holding
// ForkLock keeps it out of children started by os/exec in the meantime.
type twoStepCreator struct{}

func (twoStepCreator) create(family int, typ Type) (FD, error) {
	syscall.ForkLock.RLock()
	s, err := sysretry.Do(errors.PhaseCreate, "socket", func() (int, error) {
		return socketFunc(family, int(typ), 0)
	})
	if err != nil {
		syscall.ForkLock.RUnlock()
		return InvalidFD, err
	}
	err = setCloseOnExec(s)
	syscall.ForkLock.RUnlock()

	if err == nil {
		err = setNonblock(s)
	}
	if err != nil {
		_ = closeFunc(s)
		return InvalidFD, err
	}
	return FD(s), nil
}

func setCloseOnExec(s int) error {
	_, err := sysretry.Do(errors.PhaseConfigure, "fcntl", func() (int, error) {
		return fcntlFunc(uintptr(s), unix.F_SETFD, unix.FD_CLOEXEC)
	})
	return err
}

func setNonblock(s int) error {
	flags, err := sysretry.Do(errors.PhaseConfigure, "fcntl", func() (int, error) {
		return fcntlFunc(uintptr(s), unix.F_GETFL, 0)
	})
	if err != nil {
		return err
	}
	if flags&unix.O_NONBLOCK != 0 {
		return nil
	}
	_, err = sysretry.Do(errors.PhaseConfigure, "fcntl", func() (int, error) {
		return fcntlFunc(uintptr(s), unix.F_SETFL, flags|unix.O_NONBLOCK)
	})
	return err
}
