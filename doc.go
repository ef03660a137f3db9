// Package netsock creates socket descriptors that are non-blocking and
// close-on-exec from the moment they exist, and exposes the kernel layout of
// socket addresses for raw system calls.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	netsock/
//	├── socket/          Socket factory, address views and descriptor queries
//	│   └── internal/
//	│       └── sysretry EINTR retry around raw system calls
//	├── resource/        Handle table owning descriptors
//	├── errors/          Structured error types for debugging
//	├── wasi/rawsock/    wazero host module exposing the factory to guests
//	└── cmd/sockprobe/   Diagnostic CLI
//
// # Quick Start
//
// Create a socket for an address and check its state:
//
//	addr, err := socket.ParseAddress("127.0.0.1:0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fd, err := socket.NewSocket(addr, socket.Stream)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer socket.Close(fd)
//
//	nb, _ := socket.IsNonBlocking(fd) // true
//
// Pass an address to a raw system call:
//
//	v := socket.View(addr)
//	_, _, errno := unix.Syscall(unix.SYS_CONNECT, fd.Uintptr(), uintptr(v.Ptr), uintptr(v.Len))
//
// # Creation Strategies
//
// On Linux and the BSDs the descriptor flags are requested atomically with
// SOCK_NONBLOCK|SOCK_CLOEXEC. Elsewhere the socket is created and then
// configured with fcntl while holding syscall.ForkLock, so a concurrent
// fork/exec cannot inherit it. A failed fcntl closes the new descriptor.
//
// # Error Handling
//
// All errors are *errors.Error with phase and kind classification:
//
//	fd, err := socket.NewSocket(addr, socket.Stream)
//	if errors.Is(err, unix.EMFILE) {
//	    // descriptor limit reached
//	}
//
// # Ownership
//
// A socket.FD is a plain number. Callers close it with socket.Close, or hand
// it to a resource.Table which closes everything it owns on Close.
package netsock
