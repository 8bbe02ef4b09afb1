package uasession

import "errors"

var (
	// ErrInvalidState is returned synchronously to a caller that invokes
	// an operation in a state that does not permit it (spec.md §4.4's
	// invariant: state is left unchanged).
	ErrInvalidState = errors.New("uasession: operation invalid in current state")

	// ErrDuplicateService is returned by RegisterService for an
	// already-registered type id (spec.md §4.4).
	ErrDuplicateService = errors.New("uasession: service already registered for type id")

	// ErrTimeout completes a ServiceTransaction whose deadline elapsed
	// before a response arrived (spec.md §4.4, §7).
	ErrTimeout = errors.New("uasession: transaction timed out")

	// ErrChannelClosed completes every pending ServiceTransaction when
	// the underlying SecureChannel disconnects (spec.md §4.4, §7).
	ErrChannelClosed = errors.New("uasession: secure channel closed")

	// ErrSessionClosed is returned by Send/CreateSession/ActivateSession
	// once the session has been torn down.
	ErrSessionClosed = errors.New("uasession: session closed")
)
