package logger

import "github.com/user/moviesigdb/pkg/ports"

// NoopLogger discards every message. It is used for --quiet runs and in tests.
type NoopLogger struct{}

// NewNoop creates a new no-op logger.
func NewNoop() *NoopLogger {
	return &NoopLogger{}
}

func (l *NoopLogger) Debug(string, ...interface{}) {}
func (l *NoopLogger) Info(string, ...interface{})  {}
func (l *NoopLogger) Warn(string, ...interface{})  {}
func (l *NoopLogger) Error(string, ...interface{}) {}

// WithComponent returns l; components are irrelevant when nothing is written.
func (l *NoopLogger) WithComponent(string) ports.Logger {
	return l
}

var _ ports.Logger = (*NoopLogger)(nil)
