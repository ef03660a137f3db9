// Package socket creates socket descriptors that are ready to hand to a
// readiness poller, and exposes the raw address layout taken by the kernel.
//
// # Socket Factory
//
// NewSocket returns a descriptor that is non-blocking and close-on-exec at
// the moment it is returned:
//
//	addr, _ := socket.ParseAddress("127.0.0.1:0")
//	fd, err := socket.NewSocket(addr, socket.Stream)
//	if err != nil {
//	    return err
//	}
//	defer socket.Close(fd)
//
// The address only selects the family. Platforms whose socket(2) accepts
// SOCK_NONBLOCK|SOCK_CLOEXEC use a single call (StrategyAtomic). Others
// create the socket and then set the flags with fcntl(2) (StrategyTwoStep);
// on those platforms a descriptor that fails the follow-on fcntl is closed
// before the error is returned. PlatformStrategy reports which one is used.
//
// # Address view
//
// View returns the pointer and length of the kernel sockaddr stored inside
// an Address, for use with raw bind/connect/sendto calls:
//
//	v := socket.View(addr)
//	_, _, errno := unix.Syscall(unix.SYS_CONNECT, fd.Uintptr(), uintptr(v.Ptr), uintptr(v.Len))
//
// The view aliases the Address. It must not outlive it.
//
// # Ownership
//
// FD is a plain non-owning handle. The caller that receives it from the
// factory owns it and must close it; see package resource for an owning
// table.
//
// # Errors
//
// Failures are *errors.Error values of KindIO carrying the syscall name and
// errno. Interrupted calls are retried. Passing a socket type that already
// carries modifier bits, or a nil Address, is a programming error and panics.
package socket
