//go:build unix

package resource

import (
	"github.com/wippyai/netsock/errors"
	"github.com/wippyai/netsock/socket"
)

// Handle is an opaque reference to a descriptor in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Event types for descriptor lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventReleased
	EventClosed
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventReleased:
		return "released"
	case EventClosed:
		return "closed"
	}
	return "unknown"
}

// Event represents a descriptor lifecycle event. Err is set on EventClosed
// when close(2) failed.
type Event struct {
	Err    error
	Handle Handle
	FD     socket.FD
	Type   EventType
}

// Observer receives notifications about descriptor lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

var (
	ErrClosed            = errors.Closed(errors.PhaseClose, "resource table")
	ErrOutstandingBorrow = errors.New(errors.PhaseClose, errors.KindInvalidInput).
				Detail("descriptor has outstanding borrows").
				Build()
)
