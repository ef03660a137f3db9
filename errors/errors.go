package errors

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
)

// Phase indicates where the error occurred
type Phase string

const (
	PhaseCreate    Phase = "create"    // socket creation
	PhaseConfigure Phase = "configure" // post-creation flag setup
	PhaseQuery     Phase = "query"     // descriptor inspection
	PhaseClose     Phase = "close"     // descriptor release
	PhaseHost      Phase = "host"      // wasm host module
	PhaseConfig    Phase = "config"    // probe plan loading
)

// Kind categorizes the error
type Kind string

const (
	KindIO           Kind = "io"
	KindInvalidInput Kind = "invalid_input"
	KindUnsupported  Kind = "unsupported"
	KindNotFound     Kind = "not_found"
	KindClosed       Kind = "closed"
)

// Error is the structured error type used throughout netsock
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Op     string
	Detail string
	Errno  syscall.Errno
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if e.Errno != 0 {
		b.WriteString(": ")
		b.WriteString(e.Errno.Error())
		fmt.Fprintf(&b, " (errno %d)", uintptr(e.Errno))
	}

	if e.Detail != "" {
		if e.Errno != 0 {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil && (e.Errno == 0 || !errors.Is(e.Cause, e.Errno)) {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the syscall or operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Errno sets the OS error code. It also becomes the cause unless one is set.
func (b *Builder) Errno(errno syscall.Errno) *Builder {
	b.err.Errno = errno
	if b.err.Cause == nil {
		b.err.Cause = errno
	}
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Syscall wraps a failed OS call. A syscall.Errno anywhere in err's chain is
// recorded as the error code.
func Syscall(phase Phase, op string, err error) *Error {
	e := &Error{
		Phase: phase,
		Kind:  KindIO,
		Op:    op,
		Cause: err,
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		e.Errno = errno
	}
	return e
}

// InvalidInput creates a precondition violation error
func InvalidInput(phase Phase, detail string, args ...any) *Error {
	return New(phase, KindInvalidInput).Detail(detail, args...).Build()
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotFound creates a missing handle or entry error
func NotFound(phase Phase, what string, value any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: what,
		Value:  value,
	}
}

// Closed reports an operation on a closed owner
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: what + " is closed",
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ErrnoOf extracts the OS error code from err, if any.
func ErrnoOf(err error) (syscall.Errno, bool) {
	var e *Error
	if errors.As(err, &e) && e.Errno != 0 {
		return e.Errno, true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno, true
	}
	return 0, false
}
