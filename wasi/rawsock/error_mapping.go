//go:build unix

package rawsock

import (
	stderrors "errors"
	"syscall"

	"github.com/wippyai/netsock/errors"
)

// ErrorCode is returned to the guest alongside every result. Zero is success.
type ErrorCode uint32

const (
	ErrorCodeOK ErrorCode = iota
	ErrorCodeUnknown
	ErrorCodeAccessDenied
	ErrorCodeNotSupported
	ErrorCodeInvalidArgument
	ErrorCodeOutOfMemory
	ErrorCodeNewSocketLimit
	ErrorCodeInvalidState
)

func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeOK:
		return "ok"
	case ErrorCodeUnknown:
		return "unknown"
	case ErrorCodeAccessDenied:
		return "access-denied"
	case ErrorCodeNotSupported:
		return "not-supported"
	case ErrorCodeInvalidArgument:
		return "invalid-argument"
	case ErrorCodeOutOfMemory:
		return "out-of-memory"
	case ErrorCodeNewSocketLimit:
		return "new-socket-limit"
	case ErrorCodeInvalidState:
		return "invalid-state"
	}
	return "error-code(?)"
}

// mapError converts a netsock error to a guest error code.
func mapError(err error) ErrorCode {
	if err == nil {
		return ErrorCodeOK
	}

	if errno, ok := errors.ErrnoOf(err); ok {
		return mapErrno(errno)
	}

	var e *errors.Error
	if stderrors.As(err, &e) {
		switch e.Kind {
		case errors.KindInvalidInput:
			return ErrorCodeInvalidArgument
		case errors.KindUnsupported:
			return ErrorCodeNotSupported
		case errors.KindNotFound, errors.KindClosed:
			return ErrorCodeInvalidState
		}
	}

	return ErrorCodeUnknown
}

// mapErrno converts syscall.Errno to guest error codes.
func mapErrno(errno syscall.Errno) ErrorCode {
	switch errno {
	case syscall.EACCES, syscall.EPERM:
		return ErrorCodeAccessDenied
	case syscall.EAFNOSUPPORT, syscall.EPROTONOSUPPORT, syscall.EPROTOTYPE, syscall.ESOCKTNOSUPPORT:
		return ErrorCodeNotSupported
	case syscall.EINVAL:
		return ErrorCodeInvalidArgument
	case syscall.ENOMEM, syscall.ENOBUFS:
		return ErrorCodeOutOfMemory
	case syscall.EMFILE, syscall.ENFILE:
		return ErrorCodeNewSocketLimit
	case syscall.EBADF, syscall.ENOTSOCK:
		return ErrorCodeInvalidState
	default:
		return ErrorCodeUnknown
	}
}
