//go:build unix

package socket

import (
	stderrors "errors"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/wippyai/netsock/errors"
)

func swapHooks(t *testing.T) {
	t.Helper()
	origSocket, origFcntl, origClose := socketFunc, fcntlFunc, closeFunc
	t.Cleanup(func() {
		socketFunc, fcntlFunc, closeFunc = origSocket, origFcntl, origClose
	})
}

func TestTwoStep_ClosesOnFcntlFailure(t *testing.T) {
	tests := []struct {
		name string
		cmd  int
	}{
		{"setfd", unix.F_SETFD},
		{"setfl", unix.F_SETFL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			swapHooks(t)

			var created, closed []int
			socketFunc = func(domain, typ, proto int) (int, error) {
				s, err := unix.Socket(domain, typ, proto)
				if err == nil {
					created = append(created, s)
				}
				return s, err
			}
			fcntlFunc = func(fd uintptr, cmd, arg int) (int, error) {
				if cmd == tt.cmd {
					return -1, unix.EINVAL
				}
				return unix.FcntlInt(fd, cmd, arg)
			}
			closeFunc = func(fd int) error {
				closed = append(closed, fd)
				return unix.Close(fd)
			}

			fd, err := NewSocketWith(StrategyTwoStep, NewInet4([4]byte{127, 0, 0, 1}, 0), Stream)
			if err == nil {
				t.Fatalf("expected error, got %v", fd)
			}
			if fd != InvalidFD {
				t.Errorf("fd = %v, want InvalidFD", fd)
			}

			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("expected *errors.Error, got %T", err)
			}
			if e.Phase != errors.PhaseConfigure || e.Op != "fcntl" || e.Errno != unix.EINVAL {
				t.Errorf("got %v, want [configure] io in fcntl EINVAL", e)
			}

			if len(created) != 1 {
				t.Fatalf("created %d sockets, want 1", len(created))
			}
			if len(closed) != 1 || closed[0] != created[0] {
				t.Errorf("closed %v, want [%d]", closed, created[0])
			}
		})
	}
}

func TestTwoStep_SocketFailure(t *testing.T) {
	swapHooks(t)

	closeCalls := 0
	socketFunc = func(int, int, int) (int, error) { return -1, unix.EMFILE }
	closeFunc = func(int) error { closeCalls++; return nil }

	_, err := NewSocketWith(StrategyTwoStep, NewInet4([4]byte{}, 0), Datagram)
	if !stderrors.Is(err, unix.EMFILE) {
		t.Fatalf("expected EMFILE, got %v", err)
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseCreate, Kind: errors.KindIO}) {
		t.Errorf("expected [create] io, got %v", err)
	}
	if closeCalls != 0 {
		t.Errorf("close called %d times, want 0", closeCalls)
	}
}

func TestNewSocket_RetriesInterruptedCreate(t *testing.T) {
	swapHooks(t)

	attempts := 0
	socketFunc = func(domain, typ, proto int) (int, error) {
		attempts++
		if attempts == 1 {
			return -1, unix.EINTR
		}
		return unix.Socket(domain, typ, proto)
	}

	for _, s := range strategies() {
		attempts = 0
		fd, err := NewSocketWith(s, NewInet4([4]byte{127, 0, 0, 1}, 0), Stream)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", s, err)
		}
		_ = Close(fd)
		if attempts != 2 {
			t.Errorf("%s: attempts = %d, want 2", s, attempts)
		}
	}
}

func TestAtomic_PassesModifierBits(t *testing.T) {
	if !AtomicSupported() {
		t.Skip("platform has no atomic socket flags")
	}
	swapHooks(t)

	var gotType int
	socketFunc = func(domain, typ, proto int) (int, error) {
		gotType = typ
		return unix.Socket(domain, typ, proto)
	}

	fd, err := NewSocketWith(StrategyAtomic, NewInet4([4]byte{127, 0, 0, 1}, 0), Stream)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer Close(fd)

	if gotType&typeMask != int(Stream) {
		t.Errorf("base type = %#x, want %#x", gotType&typeMask, int(Stream))
	}
	if gotType&^typeMask == 0 {
		t.Errorf("type %#x carries no modifier bits", gotType)
	}
}
