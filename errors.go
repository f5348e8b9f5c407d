package reactor

import "errors"

// Sentinel errors returned by the reactor's backend, socket and
// connection-lifecycle operations.
var (
	// ErrAlreadyRegistered is returned by register when the fd is
	// already known to the backend.
	ErrAlreadyRegistered = errors.New("reactor: fd already registered")

	// ErrNotRegistered is returned by modify/deregister when the fd is
	// not known to the backend.
	ErrNotRegistered = errors.New("reactor: fd not registered")

	// ErrBackendError reports an unexpected multiplexer failure.
	// Reactor.Run logs it when wait returns it; a connection whose
	// register fails has its fd closed directly. No caller deregisters
	// an fd or schedules a close in response to it.
	ErrBackendError = errors.New("reactor: backend error")

	// ErrFatalSetup signals a bind/listen/backend-create failure. The
	// CLI entry point logs it and exits non-zero.
	ErrFatalSetup = errors.New("reactor: fatal setup failure")

	// ErrClosed names an operation on a reactor that has been stopped.
	// No function in this package returns it.
	ErrClosed = errors.New("reactor: closed")

	// ErrEmptyBuffer names a zero-length write buffer. No function in
	// this package returns it; WriteNonblock does not check for empty
	// buffers.
	ErrEmptyBuffer = errors.New("reactor: empty buffer")

	// ErrDeadline names a timed operation that expired before
	// completion. No function in this package returns it.
	ErrDeadline = errors.New("reactor: deadline exceeded")
)
