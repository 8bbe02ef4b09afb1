package uacp

import (
	"errors"
	"time"
)

// ChannelConfig defines the SecureChannel's timing and sizing limits
// (spec.md §4.3, §4.4). Zero fields are replaced by their default; an
// out-of-range non-zero field is rejected — the same "zero means default,
// out-of-range is an error" discipline the teacher's cs104.Config.Valid
// applies to its IEC 60870-5-104 timers.
type ChannelConfig struct {
	// HelloTimeout is the wait allowed for an Acknowledge after Hello. It
	// is only defaulted and range-checked here; Channel.Connect does not
	// apply it and blocks until the transport yields a frame or an error.
	HelloTimeout time.Duration

	// OpenTimeout is the wait allowed for an OpenSecureChannelResponse. It
	// is only defaulted and range-checked here; Channel.Open does not
	// apply it and blocks until the transport yields a frame or an error.
	OpenTimeout time.Duration

	// TransactionTimeout is a pending-transaction deadline (default
	// 3000 ms). Channel does not read it; the deadline a Session applies
	// comes from uasession.Config.TransactionTimeout.
	TransactionTimeout time.Duration

	// MaxChunkCount bounds how many chunks a single logical message may
	// be split across before it is rejected.
	MaxChunkCount uint32

	// MaxMessageSize bounds the declared size field of any frame
	// (spec.md §4.3's MessageTooLarge).
	MaxMessageSize uint32
}

const (
	HelloTimeoutMin = 1 * time.Second
	HelloTimeoutMax = 60 * time.Second

	OpenTimeoutMin = 1 * time.Second
	OpenTimeoutMax = 60 * time.Second

	TransactionTimeoutMin = 10 * time.Millisecond
	TransactionTimeoutMax = 5 * time.Minute

	MaxChunkCountMin uint32 = 1
	MaxChunkCountMax uint32 = 4096

	MaxMessageSizeMin uint32 = 8192
	MaxMessageSizeMax uint32 = 16 * 1024 * 1024
)

// Valid fills unset fields with their default and rejects any field set
// outside its legal range.
func (c *ChannelConfig) Valid() error {
	if c == nil {
		return errors.New("uacp: nil config")
	}
	if c.HelloTimeout == 0 {
		c.HelloTimeout = 5 * time.Second
	} else if c.HelloTimeout < HelloTimeoutMin || c.HelloTimeout > HelloTimeoutMax {
		return errors.New("uacp: HelloTimeout out of range")
	}
	if c.OpenTimeout == 0 {
		c.OpenTimeout = 5 * time.Second
	} else if c.OpenTimeout < OpenTimeoutMin || c.OpenTimeout > OpenTimeoutMax {
		return errors.New("uacp: OpenTimeout out of range")
	}
	if c.TransactionTimeout == 0 {
		c.TransactionTimeout = 3000 * time.Millisecond
	} else if c.TransactionTimeout < TransactionTimeoutMin || c.TransactionTimeout > TransactionTimeoutMax {
		return errors.New("uacp: TransactionTimeout out of range")
	}
	if c.MaxChunkCount == 0 {
		c.MaxChunkCount = 64
	} else if c.MaxChunkCount < MaxChunkCountMin || c.MaxChunkCount > MaxChunkCountMax {
		return errors.New("uacp: MaxChunkCount out of range")
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = 1 << 20
	} else if c.MaxMessageSize < MaxMessageSizeMin || c.MaxMessageSize > MaxMessageSizeMax {
		return errors.New("uacp: MaxMessageSize out of range")
	}
	return nil
}

// DefaultChannelConfig returns a ChannelConfig with every field at its
// default.
func DefaultChannelConfig() ChannelConfig {
	cfg := ChannelConfig{}
	_ = cfg.Valid()
	return cfg
}
