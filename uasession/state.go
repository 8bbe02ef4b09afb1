// Package uasession implements the session/secure-channel state machine
// of spec.md §4.4: request-handle assignment, the pending-transaction
// queue with timeout, and synchronous/asynchronous dual-mode service
// invocation.
package uasession

// State is one state of the session lifecycle (spec.md §3, §4.4).
type State int

const (
	StateClosed State = iota
	StateConnectingToSecureChannel
	StateConnectedToSecureChannel
	StateSendCreateSession
	StateReceiveCreateSession
	StateSendActivateSession
	StateReceiveActivateSession
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "Closed"
	case StateConnectingToSecureChannel:
		return "ConnectingToSecureChannel"
	case StateConnectedToSecureChannel:
		return "ConnectedToSecureChannel"
	case StateSendCreateSession:
		return "SendCreateSession"
	case StateReceiveCreateSession:
		return "ReceiveCreateSession"
	case StateSendActivateSession:
		return "SendActivateSession"
	case StateReceiveActivateSession:
		return "ReceiveActivateSession"
	default:
		return "Unknown"
	}
}
