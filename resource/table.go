//go:build unix

package resource

import (
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/netsock/errors"
	"github.com/wippyai/netsock/socket"
)

// Table owns socket descriptors and closes them on Drop and Close.
type Table struct {
	backend   *LocalBackend
	observers []Observer
	obsMu     sync.RWMutex
}

// NewTable creates a new table with a LocalBackend.
func NewTable() *Table {
	return &Table{
		backend: NewLocalBackend(),
	}
}

// Insert takes ownership of fd and returns its handle. It returns 0 if fd
// is invalid or the table is closed; fd is then still owned by the caller.
func (t *Table) Insert(fd socket.FD) Handle {
	if !fd.Valid() {
		return 0
	}

	handle, err := t.backend.Create(fd)
	if err != nil {
		return 0
	}

	t.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		FD:     fd,
	})

	return handle
}

// Open creates a socket with socket.NewSocket and inserts it.
func (t *Table) Open(addr socket.Address, typ socket.Type) (Handle, socket.FD, error) {
	return t.OpenWith(socket.StrategyAuto, addr, typ)
}

// OpenWith is Open with an explicit creation strategy.
func (t *Table) OpenWith(s socket.Strategy, addr socket.Address, typ socket.Type) (Handle, socket.FD, error) {
	fd, err := socket.NewSocketWith(s, addr, typ)
	if err != nil {
		return 0, socket.InvalidFD, err
	}

	handle := t.Insert(fd)
	if handle == 0 {
		_ = socket.Close(fd)
		return 0, socket.InvalidFD, ErrClosed
	}
	return handle, fd, nil
}

// Get retrieves a descriptor by handle. The table keeps ownership.
func (t *Table) Get(handle Handle) (socket.FD, bool) {
	return t.backend.Get(handle)
}

// With calls fn with the descriptor behind handle. The handle cannot be
// dropped while fn runs.
func (t *Table) With(handle Handle, fn func(socket.FD) error) error {
	fd, ok := t.backend.Borrow(handle)
	if !ok {
		return errNotFound(errors.PhaseQuery, handle)
	}
	defer t.backend.ReturnBorrow(handle)

	return fn(fd)
}

// Release removes handle without closing it. Ownership of the returned
// descriptor passes back to the caller.
func (t *Table) Release(handle Handle) (socket.FD, bool) {
	fd, err := t.backend.Drop(handle)
	if err != nil {
		return socket.InvalidFD, false
	}

	t.notify(Event{
		Type:   EventReleased,
		Handle: handle,
		FD:     fd,
	})

	return fd, true
}

// Drop removes handle and closes its descriptor.
func (t *Table) Drop(handle Handle) error {
	fd, err := t.backend.Drop(handle)
	if err != nil {
		return err
	}

	err = socket.Close(fd)
	t.notify(Event{
		Type:   EventClosed,
		Handle: handle,
		FD:     fd,
		Err:    err,
	})

	return err
}

// Len returns the number of owned descriptors.
func (t *Table) Len() int {
	return t.backend.Len()
}

// Each calls fn for every owned descriptor until fn returns false.
// fn must not call back into the table.
func (t *Table) Each(fn func(Handle, socket.FD) bool) {
	t.backend.Each(fn)
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Close closes every owned descriptor and stops accepting new ones. All
// close failures are returned together.
func (t *Table) Close() error {
	remaining := t.backend.Close()

	var errs error
	for handle, fd := range remaining {
		err := socket.Close(fd)
		errs = multierr.Append(errs, err)
		t.notify(Event{
			Type:   EventClosed,
			Handle: handle,
			FD:     fd,
			Err:    err,
		})
	}

	if len(remaining) > 0 {
		Logger().Debug("resource table closed",
			zap.Int("descriptors", len(remaining)),
			zap.Int("failures", len(multierr.Errors(errs))))
	}
	return errs
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}

func errNotFound(phase errors.Phase, handle Handle) error {
	return errors.NotFound(phase, "descriptor handle", uint32(handle))
}
