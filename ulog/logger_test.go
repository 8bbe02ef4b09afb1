package ulog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rob-gra/go-opcua/ulog"
)

type recordingProvider struct {
	lines []string
}

func (r *recordingProvider) Critical(format string, v ...interface{}) { r.record("C", format, v...) }
func (r *recordingProvider) Error(format string, v ...interface{})    { r.record("E", format, v...) }
func (r *recordingProvider) Warn(format string, v ...interface{})     { r.record("W", format, v...) }
func (r *recordingProvider) Debug(format string, v ...interface{})    { r.record("D", format, v...) }

func (r *recordingProvider) record(level, format string, v ...interface{}) {
	r.lines = append(r.lines, level+":"+format)
}

func TestLoggerRespectsMode(t *testing.T) {
	rec := &recordingProvider{}
	l := ulog.New(rec)

	l.Debug("hello %d", 1)
	assert.Len(t, rec.lines, 1)

	l.LogMode(false)
	l.Error("should not record")
	assert.Len(t, rec.lines, 1)

	l.LogMode(true)
	l.Warn("back on")
	assert.Len(t, rec.lines, 2)
}

func TestNewWithNilProviderUsesDefault(t *testing.T) {
	l := ulog.New(nil)
	assert.NotPanics(t, func() { l.Debug("noop") })
}
