//go:build unix

package socket

import (
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/netsock/errors"
)

// Strategy selects how the non-blocking and close-on-exec flags are applied.
type Strategy uint8

const (
	// StrategyAuto picks PlatformStrategy.
	StrategyAuto Strategy = iota
	// StrategyAtomic passes SOCK_NONBLOCK|SOCK_CLOEXEC to socket(2).
	StrategyAtomic
	// StrategyTwoStep calls socket(2) and then fcntl(2).
	StrategyTwoStep
)

func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategyAtomic:
		return "atomic"
	case StrategyTwoStep:
		return "twostep"
	}
	return "strategy(?)"
}

// ParseStrategy accepts auto, atomic and twostep. Empty means auto.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return StrategyAuto, nil
	case "atomic":
		return StrategyAtomic, nil
	case "twostep", "two-step":
		return StrategyTwoStep, nil
	}
	return StrategyAuto, errors.New(errors.PhaseCreate, errors.KindInvalidInput).
		Value(s).
		Detail("unknown strategy %q", s).
		Build()
}

// PlatformStrategy returns the strategy StrategyAuto resolves to.
func PlatformStrategy() Strategy {
	return platformStrategy
}

// AtomicSupported reports whether this platform's socket(2) takes
// SOCK_NONBLOCK and SOCK_CLOEXEC.
func AtomicSupported() bool {
	return atomicCreator != nil
}

type creator interface {
	create(family int, typ Type) (FD, error)
}

func creatorFor(s Strategy) (creator, Strategy, error) {
	if s == StrategyAuto {
		s = platformStrategy
	}
	switch s {
	case StrategyAtomic:
		if atomicCreator == nil {
			return nil, s, errors.Unsupported(errors.PhaseCreate, "atomic socket flags on this platform")
		}
		return atomicCreator, s, nil
	case StrategyTwoStep:
		return twoStepCreator{}, s, nil
	}
	return nil, s, errors.InvalidInput(errors.PhaseCreate, "unknown strategy %d", uint8(s))
}

// NewSocket creates a socket of the given base type in addr's family. The
// returned descriptor is non-blocking and close-on-exec; the caller owns it.
func NewSocket(addr Address, typ Type) (FD, error) {
	return NewSocketWith(StrategyAuto, addr, typ)
}

// NewSocketWith is NewSocket with an explicit strategy.
func NewSocketWith(s Strategy, addr Address, typ Type) (FD, error) {
	if addr == nil {
		panic(errors.InvalidInput(errors.PhaseCreate, "nil address"))
	}
	if !typ.valid() {
		panic(errors.New(errors.PhaseCreate, errors.KindInvalidInput).
			Value(int(typ)).
			Detail("socket type %#x is not a base type", int(typ)).
			Build())
	}

	c, resolved, err := creatorFor(s)
	if err != nil {
		return InvalidFD, err
	}

	fd, err := c.create(addr.Family(), typ)
	if err != nil {
		return InvalidFD, err
	}

	Logger().Debug("socket created",
		zap.Int("fd", fd.Int()),
		zap.String("family", FamilyName(addr.Family())),
		zap.Stringer("type", typ),
		zap.Stringer("strategy", resolved))
	return fd, nil
}
