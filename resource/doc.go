// Package resource owns socket descriptors on behalf of a caller.
//
// The socket package hands out raw, non-owning descriptors. A Table takes
// ownership of them and is responsible for closing them:
//
//	table := resource.NewTable()
//	defer table.Close()
//
//	h, fd, err := table.Open(addr, socket.Stream)
//	if err != nil {
//	    return err
//	}
//
// # Handle Table
//
// Handles are small integers starting at 1; 0 is never a valid handle.
// Freed handles are reused.
//
//	fd, ok := table.Get(h)     // look up
//	fd, ok = table.Release(h)  // remove, caller owns fd again
//	err = table.Drop(h)        // remove and close
//
// # Borrowing
//
// With runs a function while holding a borrow on the handle. A borrowed
// handle cannot be dropped, so the descriptor cannot be closed and reused
// underneath the function:
//
//	err := table.With(h, func(fd socket.FD) error {
//	    _, err := socket.IsNonBlocking(fd)
//	    return err
//	})
//
// # Observers
//
// Register observers to track descriptor lifecycle events:
//
//	table.Subscribe(observer)
//
// EventCreated, EventReleased and EventClosed are delivered synchronously.
//
// Close closes every descriptor still owned by the table and reports all
// close failures together.
package resource
