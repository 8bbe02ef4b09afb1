package ua

import "errors"

// Kind classifies a failure along the error taxonomy of spec.md §7. It is
// not meant to be exhaustive on its own — callers match with errors.Is
// against the sentinel values below, not by switching on Kind.
type Kind int

const (
	KindProtocol Kind = iota
	KindCodec
	KindState
	KindTimeout
	KindService
	KindLifecycle
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindProtocol:
		return "protocol"
	case KindCodec:
		return "codec"
	case KindState:
		return "state"
	case KindTimeout:
		return "timeout"
	case KindService:
		return "service"
	case KindLifecycle:
		return "lifecycle"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Codec errors (spec.md §4.1).
var (
	ErrTruncated          = errors.New("ua: truncated input")
	ErrMalformedMask      = errors.New("ua: malformed encoding mask")
	ErrUnsupportedEncoding = errors.New("ua: unsupported encoding")
	ErrLengthOutOfRange   = errors.New("ua: length out of range")
)

// Registry errors (spec.md §4.2).
var ErrDuplicateType = errors.New("ua: type id already registered")

// Information-model errors (spec.md §4.6), kept here so both ua and uamodel
// can reference a single sentinel without an import cycle.
var ErrDuplicateNodeID = errors.New("ua: node id already present")

// Error wraps cause with a Kind so callers can both errors.Is against cause
// and inspect the taxonomy via errors.As(&Error{}).
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return "ua: " + e.Kind.String()
	}
	return "ua: " + e.Kind.String() + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// Wrap attaches a Kind to cause. A nil cause yields a nil error.
func Wrap(kind Kind, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Cause: cause}
}
