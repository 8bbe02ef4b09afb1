// Package ulog provides the leveled logging capability used throughout the
// stack. It never owns a sink: callers plug in a Provider (the default one
// is backed by zap) and the rest of the module only ever talks to the small
// Provider interface.
package ulog

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
)

// Provider is the external logging collaborator. Levels follow RFC 5424
// severity naming used across the stack's error taxonomy (spec.md §7):
// Critical for unrecoverable failures, Error for protocol/codec failures,
// Warn for recoverable anomalies (stale response, benign duplicate), Debug
// for state transitions.
type Provider interface {
	Critical(format string, v ...interface{})
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// Logger wraps a Provider with an enable/disable switch that can be flipped
// without touching call sites.
type Logger struct {
	provider Provider
	has      uint32 // 1: enabled, 0: disabled
}

// New creates a Logger backed by the given Provider. If provider is nil, a
// zap-backed default provider is used.
func New(provider Provider) Logger {
	if provider == nil {
		provider = defaultProvider()
	}
	return Logger{provider: provider, has: 1}
}

// LogMode enables or disables log output.
func (l *Logger) LogMode(enable bool) {
	if enable {
		atomic.StoreUint32(&l.has, 1)
	} else {
		atomic.StoreUint32(&l.has, 0)
	}
}

// SetProvider swaps the backing Provider.
func (l *Logger) SetProvider(p Provider) {
	if p != nil {
		l.provider = p
	}
}

func (l Logger) Critical(format string, v ...interface{}) {
	if atomic.LoadUint32(&l.has) == 1 {
		l.provider.Critical(format, v...)
	}
}

func (l Logger) Error(format string, v ...interface{}) {
	if atomic.LoadUint32(&l.has) == 1 {
		l.provider.Error(format, v...)
	}
}

func (l Logger) Warn(format string, v ...interface{}) {
	if atomic.LoadUint32(&l.has) == 1 {
		l.provider.Warn(format, v...)
	}
}

func (l Logger) Debug(format string, v ...interface{}) {
	if atomic.LoadUint32(&l.has) == 1 {
		l.provider.Debug(format, v...)
	}
}

// zapProvider adapts a *zap.SugaredLogger to Provider.
type zapProvider struct {
	s *zap.SugaredLogger
}

var _ Provider = zapProvider{}

func defaultProvider() Provider {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		// Build only fails on a malformed config; stderr fallback keeps the
		// stack usable without a functioning logger.
		logger = zap.NewNop()
		os.Stderr.WriteString("ulog: falling back to a no-op logger: " + err.Error() + "\n")
	}
	return zapProvider{s: logger.Sugar()}
}

func (p zapProvider) Critical(format string, v ...interface{}) { p.s.Errorf("[C] "+format, v...) }
func (p zapProvider) Error(format string, v ...interface{})    { p.s.Errorf(format, v...) }
func (p zapProvider) Warn(format string, v ...interface{})     { p.s.Warnf(format, v...) }
func (p zapProvider) Debug(format string, v ...interface{})    { p.s.Debugf(format, v...) }
