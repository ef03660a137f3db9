// Package errors provides the structured error type used across netsock.
//
// Every runtime failure is an I/O failure tagged with the originating syscall
// and its errno. Errors are categorized by Phase (where the error occurred)
// and Kind (error category); the errno is also the Cause, so errors.Is works
// against unix.Errno values directly.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCreate, errors.KindIO).
//		Op("socket").
//		Errno(unix.EMFILE).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Syscall(errors.PhaseQuery, "fcntl", unix.EBADF)
//	err := errors.InvalidInput(errors.PhaseCreate, "socket type %#x", typ)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
