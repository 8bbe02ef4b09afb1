// Package uacp implements the OPC UA TCP transport framing and the
// SecureChannel lifecycle (spec.md §4.3): Hello/Acknowledge handshake,
// OpenSecureChannel/CloseSecureChannel, message chunking, and ascending
// sequence numbers. Only MessageSecurityMode_None is implemented; the
// framing keeps the fields a signed/encrypted mode would need.
package uacp

import "errors"

// Sentinel causes wrapped with ua.KindProtocol/KindLifecycle by callers
// (spec.md §4.3's failure modes).
var (
	ErrChannelClosed          = errors.New("uacp: channel closed")
	ErrSequenceNumberMismatch = errors.New("uacp: sequence number mismatch")
	ErrMessageTooLarge        = errors.New("uacp: message too large")
	ErrChannelTimeout         = errors.New("uacp: channel timeout")
	ErrUnknownMessageType     = errors.New("uacp: unknown message type")
	ErrAbortedChunk           = errors.New("uacp: chunk sequence aborted")
)
