//go:build unix

package socket

import (
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/wippyai/netsock/errors"
)

// Type is a base socket type without creation-time modifiers.
type Type int

const (
	Stream    Type = unix.SOCK_STREAM
	Datagram  Type = unix.SOCK_DGRAM
	SeqPacket Type = unix.SOCK_SEQPACKET
	Raw       Type = unix.SOCK_RAW
)

// Base socket types fit in the low nibble on every supported kernel;
// anything above it is a modifier such as SOCK_NONBLOCK.
const typeMask = 0xf

func (t Type) valid() bool {
	return t > 0 && t&^typeMask == 0
}

func (t Type) String() string {
	switch t {
	case Stream:
		return "stream"
	case Datagram:
		return "dgram"
	case SeqPacket:
		return "seqpacket"
	case Raw:
		return "raw"
	}
	return "type(" + strconv.Itoa(int(t)) + ")"
}

// ParseType accepts stream/tcp, dgram/datagram/udp, seqpacket and raw.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stream", "tcp":
		return Stream, nil
	case "dgram", "datagram", "udp":
		return Datagram, nil
	case "seqpacket":
		return SeqPacket, nil
	case "raw":
		return Raw, nil
	}
	return 0, errors.New(errors.PhaseCreate, errors.KindInvalidInput).
		Value(s).
		Detail("unknown socket type %q", s).
		Build()
}
