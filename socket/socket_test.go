//go:build unix

package socket

import (
	stderrors "errors"
	"sync"
	"testing"

	"github.com/sourcegraph/conc"
	"golang.org/x/sys/unix"

	"github.com/wippyai/netsock/errors"
)

func mustParse(t *testing.T, s string) Address {
	t.Helper()
	addr, err := ParseAddress(s)
	if err != nil {
		t.Fatalf("ParseAddress(%q): %v", s, err)
	}
	return addr
}

// newOrSkip skips when the host has no IPv6 stack.
func newOrSkip(t *testing.T, s Strategy, addr Address, typ Type) FD {
	t.Helper()
	fd, err := NewSocketWith(s, addr, typ)
	if stderrors.Is(err, unix.EAFNOSUPPORT) || stderrors.Is(err, unix.EPROTONOSUPPORT) {
		t.Skipf("%s not available: %v", addr, err)
	}
	if err != nil {
		t.Fatalf("NewSocketWith(%s, %s, %s): %v", s, addr, typ, err)
	}
	t.Cleanup(func() { _ = Close(fd) })
	return fd
}

func strategies() []Strategy {
	out := []Strategy{StrategyAuto, StrategyTwoStep}
	if AtomicSupported() {
		out = append(out, StrategyAtomic)
	}
	return out
}

func TestNewSocket_LoopbackStream(t *testing.T) {
	fd, err := NewSocket(mustParse(t, "127.0.0.1:0"), Stream)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer Close(fd)

	if !fd.Valid() {
		t.Fatalf("expected valid descriptor, got %v", fd)
	}

	nb, err := IsNonBlocking(fd)
	if err != nil {
		t.Fatalf("IsNonBlocking: %v", err)
	}
	if !nb {
		t.Error("expected non-blocking socket")
	}
}

func TestNewSocket_Postcondition(t *testing.T) {
	tests := []struct {
		name   string
		addr   string
		typ    Type
		family int
	}{
		{"ipv4 stream", "127.0.0.1:0", Stream, unix.AF_INET},
		{"ipv4 dgram", "0.0.0.0:53", Datagram, unix.AF_INET},
		{"ipv6 stream", "[::1]:0", Stream, unix.AF_INET6},
		{"ipv6 dgram", "[::]:9000", Datagram, unix.AF_INET6},
	}

	for _, s := range strategies() {
		for _, tt := range tests {
			t.Run(s.String()+"/"+tt.name, func(t *testing.T) {
				fd := newOrSkip(t, s, mustParse(t, tt.addr), tt.typ)

				nb, err := IsNonBlocking(fd)
				if err != nil {
					t.Fatalf("IsNonBlocking: %v", err)
				}
				if !nb {
					t.Error("expected O_NONBLOCK")
				}

				cloexec, err := IsCloseOnExec(fd)
				if err != nil {
					t.Fatalf("IsCloseOnExec: %v", err)
				}
				if !cloexec {
					t.Error("expected FD_CLOEXEC")
				}

				family, err := Family(fd)
				if err != nil {
					t.Fatalf("Family: %v", err)
				}
				if family != tt.family {
					t.Errorf("family = %s, want %s", FamilyName(family), FamilyName(tt.family))
				}

				typ, err := SocketType(fd)
				if err != nil {
					t.Fatalf("SocketType: %v", err)
				}
				if typ != tt.typ {
					t.Errorf("type = %s, want %s", typ, tt.typ)
				}
			})
		}
	}
}

func TestNewSocket_InvalidTypePanics(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
	}{
		{"zero", 0},
		{"negative", -1},
		{"modifier bits", Stream | 0x800},
	}

	addr := NewInet4([4]byte{127, 0, 0, 1}, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("expected panic")
				}
				e, ok := r.(*errors.Error)
				if !ok {
					t.Fatalf("panic value %T, want *errors.Error", r)
				}
				if e.Kind != errors.KindInvalidInput {
					t.Errorf("Kind = %s, want invalid_input", e.Kind)
				}
			}()
			_, _ = NewSocket(addr, tt.typ)
		})
	}
}

func TestNewSocket_NilAddressPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	_, _ = NewSocket(nil, Stream)
}

func TestNewSocketWith_UnknownStrategy(t *testing.T) {
	_, err := NewSocketWith(Strategy(42), NewInet4([4]byte{}, 0), Stream)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseCreate, Kind: errors.KindInvalidInput}) {
		t.Fatalf("expected invalid_input, got %v", err)
	}
}

func TestNewSocketWith_AtomicUnsupported(t *testing.T) {
	if AtomicSupported() {
		t.Skip("platform supports atomic flags")
	}
	_, err := NewSocketWith(StrategyAtomic, NewInet4([4]byte{}, 0), Stream)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseCreate, Kind: errors.KindUnsupported}) {
		t.Fatalf("expected unsupported, got %v", err)
	}
}

func TestPlatformStrategy(t *testing.T) {
	s := PlatformStrategy()
	if s == StrategyAuto {
		t.Fatal("platform strategy must be concrete")
	}
	if (s == StrategyAtomic) != AtomicSupported() {
		t.Errorf("PlatformStrategy() = %s but AtomicSupported() = %v", s, AtomicSupported())
	}
}

func TestNewSocket_Concurrent(t *testing.T) {
	const workers, perWorker = 16, 8

	var (
		mu   sync.Mutex
		fds  = make(map[FD]bool)
		errs []error
	)

	var wg conc.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Go(func() {
			for j := 0; j < perWorker; j++ {
				fd, err := NewSocket(NewInet4([4]byte{127, 0, 0, 1}, 0), Stream)
				mu.Lock()
				if err != nil {
					errs = append(errs, err)
				} else {
					if fds[fd] {
						errs = append(errs, stderrors.New("duplicate descriptor "+fd.String()))
					}
					fds[fd] = true
				}
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	defer func() {
		for fd := range fds {
			_ = Close(fd)
		}
	}()

	for _, err := range errs {
		t.Error(err)
	}
	if len(fds) != workers*perWorker {
		t.Fatalf("got %d descriptors, want %d", len(fds), workers*perWorker)
	}
	for fd := range fds {
		nb, err := IsNonBlocking(fd)
		if err != nil || !nb {
			t.Errorf("%v: non-blocking = %v, err = %v", fd, nb, err)
		}
	}
}
