//go:build unix

package resource

import (
	"sync"

	"github.com/wippyai/netsock/errors"
	"github.com/wippyai/netsock/socket"
)

// LocalBackend is an in-memory descriptor store with borrow tracking.
type LocalBackend struct {
	entries  []entry
	freeList []Handle
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	fd          socket.FD
	borrowCount uint32
	valid       bool
}

// NewLocalBackend creates a new in-memory backend.
func NewLocalBackend() *LocalBackend {
	return &LocalBackend{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

// Create stores fd and returns a handle.
func (b *LocalBackend) Create(fd socket.FD) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}

	e := entry{fd: fd, valid: true}

	if len(b.freeList) > 0 {
		handle := b.freeList[len(b.freeList)-1]
		b.freeList = b.freeList[:len(b.freeList)-1]
		b.entries[handle-1] = e
		return handle, nil
	}

	b.entries = append(b.entries, e)
	return Handle(len(b.entries)), nil
}

// lookup returns the live entry for handle. Caller holds b.mu.
func (b *LocalBackend) lookup(handle Handle) *entry {
	if handle == 0 {
		return nil
	}
	idx := handle - 1
	if int(idx) >= len(b.entries) {
		return nil
	}
	e := &b.entries[idx]
	if !e.valid {
		return nil
	}
	return e
}

// Get retrieves a descriptor by handle.
func (b *LocalBackend) Get(handle Handle) (socket.FD, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e := b.lookup(handle)
	if e == nil {
		return socket.InvalidFD, false
	}
	return e.fd, true
}

// Drop removes a descriptor and returns it. It fails if the handle is
// unknown or borrowed.
func (b *LocalBackend) Drop(handle Handle) (socket.FD, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(handle)
	if e == nil {
		return socket.InvalidFD, errNotFound(errors.PhaseClose, handle)
	}
	if e.borrowCount > 0 {
		return socket.InvalidFD, ErrOutstandingBorrow
	}

	fd := e.fd
	*e = entry{}
	b.freeList = append(b.freeList, handle)
	return fd, nil
}

// Borrow increments the borrow count for a handle.
func (b *LocalBackend) Borrow(handle Handle) (socket.FD, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(handle)
	if e == nil {
		return socket.InvalidFD, false
	}
	e.borrowCount++
	return e.fd, true
}

// ReturnBorrow decrements the borrow count for a handle.
func (b *LocalBackend) ReturnBorrow(handle Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(handle)
	if e == nil || e.borrowCount == 0 {
		return false
	}
	e.borrowCount--
	return true
}

// Len returns the number of live entries.
func (b *LocalBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries) - len(b.freeList)
}

// Each calls fn for every live entry until fn returns false. fn must not
// call back into the backend.
func (b *LocalBackend) Each(fn func(Handle, socket.FD) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i := range b.entries {
		if !b.entries[i].valid {
			continue
		}
		if !fn(Handle(i+1), b.entries[i].fd) {
			return
		}
	}
}

// Close marks the backend closed and returns the descriptors it still held,
// keyed by handle. Later calls return nil.
func (b *LocalBackend) Close() map[Handle]socket.FD {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	remaining := make(map[Handle]socket.FD)
	for i := range b.entries {
		if b.entries[i].valid {
			remaining[Handle(i+1)] = b.entries[i].fd
		}
	}

	b.entries = nil
	b.freeList = nil
	return remaining
}
