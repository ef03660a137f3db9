//go:build unix

package socket

import (
	"net"
	"net/netip"
	"strconv"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/wippyai/netsock/errors"
)

// Address is an IPv4 or IPv6 endpoint stored in the kernel's sockaddr
// layout. It is implemented only by *Inet4 and *Inet6.
type Address interface {
	// Family returns AF_INET or AF_INET6.
	Family() int

	// AddrPort returns the endpoint as a netip.AddrPort.
	AddrPort() netip.AddrPort

	String() string

	// sockaddr returns the kernel struct and its exact size.
	sockaddr() (unsafe.Pointer, uint32)
}

// Inet4 is an IPv4 endpoint.
type Inet4 struct {
	raw unix.RawSockaddrInet4
}

// NewInet4 builds an IPv4 endpoint.
func NewInet4(ip [4]byte, port uint16) *Inet4 {
	a := &Inet4{}
	a.raw.Addr = ip
	setFamily4(&a.raw)
	putPort(&a.raw.Port, port)
	return a
}

func (a *Inet4) Family() int { return unix.AF_INET }

func (a *Inet4) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(netip.AddrFrom4(a.raw.Addr), getPort(&a.raw.Port))
}

func (a *Inet4) String() string { return a.AddrPort().String() }

func (a *Inet4) sockaddr() (unsafe.Pointer, uint32) {
	return unsafe.Pointer(&a.raw), uint32(unsafe.Sizeof(a.raw))
}

// Inet6 is an IPv6 endpoint.
type Inet6 struct {
	raw unix.RawSockaddrInet6
}

// NewInet6 builds an IPv6 endpoint. scopeID is the interface index for
// link-local addresses, 0 otherwise.
func NewInet6(ip [16]byte, port uint16, scopeID uint32) *Inet6 {
	a := &Inet6{}
	a.raw.Addr = ip
	a.raw.Scope_id = scopeID
	setFamily6(&a.raw)
	putPort(&a.raw.Port, port)
	return a
}

func (a *Inet6) Family() int { return unix.AF_INET6 }

// ScopeID returns the interface index the address is scoped to.
func (a *Inet6) ScopeID() uint32 { return a.raw.Scope_id }

func (a *Inet6) AddrPort() netip.AddrPort {
	ip := netip.AddrFrom16(a.raw.Addr)
	if a.raw.Scope_id != 0 {
		ip = ip.WithZone(strconv.FormatUint(uint64(a.raw.Scope_id), 10))
	}
	return netip.AddrPortFrom(ip, getPort(&a.raw.Port))
}

func (a *Inet6) String() string { return a.AddrPort().String() }

func (a *Inet6) sockaddr() (unsafe.Pointer, uint32) {
	return unsafe.Pointer(&a.raw), uint32(unsafe.Sizeof(a.raw))
}

// AddressFrom converts ap. IPv4 addresses become *Inet4; everything else,
// including IPv4-mapped IPv6, becomes *Inet6. A zone is resolved to an
// interface index, either numerically or by interface name.
func AddressFrom(ap netip.AddrPort) (Address, error) {
	if !ap.IsValid() {
		return nil, errors.InvalidInput(errors.PhaseCreate, "invalid address %v", ap)
	}

	ip := ap.Addr()
	if ip.Is4() {
		return NewInet4(ip.As4(), ap.Port()), nil
	}

	scope, err := zoneIndex(ip.Zone())
	if err != nil {
		return nil, err
	}
	return NewInet6(ip.As16(), ap.Port(), scope), nil
}

// ParseAddress parses "ip:port" or "[ip6%zone]:port".
func ParseAddress(s string) (Address, error) {
	ap, err := netip.ParseAddrPort(s)
	if err != nil {
		return nil, errors.New(errors.PhaseCreate, errors.KindInvalidInput).
			Value(s).
			Cause(err).
			Detail("parse address").
			Build()
	}
	return AddressFrom(ap)
}

func zoneIndex(zone string) (uint32, error) {
	if zone == "" {
		return 0, nil
	}
	if n, err := strconv.ParseUint(zone, 10, 32); err == nil {
		return uint32(n), nil
	}
	ifi, err := net.InterfaceByName(zone)
	if err != nil {
		return 0, errors.New(errors.PhaseCreate, errors.KindInvalidInput).
			Value(zone).
			Cause(err).
			Detail("unknown zone %q", zone).
			Build()
	}
	return uint32(ifi.Index), nil
}

// FamilyName returns "inet", "inet6" or "unix" for the matching AF_* value.
func FamilyName(family int) string {
	switch family {
	case unix.AF_INET:
		return "inet"
	case unix.AF_INET6:
		return "inet6"
	case unix.AF_UNIX:
		return "unix"
	}
	return "af(" + strconv.Itoa(family) + ")"
}

// Ports are stored big-endian regardless of host order.
func putPort(p *uint16, port uint16) {
	b := (*[2]byte)(unsafe.Pointer(p))
	b[0] = byte(port >> 8)
	b[1] = byte(port)
}

func getPort(p *uint16) uint16 {
	b := (*[2]byte)(unsafe.Pointer(p))
	return uint16(b[0])<<8 | uint16(b[1])
}
