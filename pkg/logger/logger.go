package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger is the logging surface used across the service.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
}

type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger writes JSON lines to stdout.
func NewSlogLogger(debug bool) *SlogLogger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return &SlogLogger{l: slog.New(h)}
}

// NewNopLogger discards everything. Used in tests.
func NewNopLogger() *SlogLogger {
	return &SlogLogger{l: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (s *SlogLogger) Debugf(format string, args ...any) {
	s.l.Debug(fmt.Sprintf(format, args...))
}

func (s *SlogLogger) Infof(format string, args ...any) {
	s.l.Info(fmt.Sprintf(format, args...))
}

func (s *SlogLogger) Warnf(format string, args ...any) {
	s.l.Warn(fmt.Sprintf(format, args...))
}

func (s *SlogLogger) Errorf(err error, format string, args ...any) {
	s.l.Error(fmt.Sprintf(format, args...), slog.Any("error", err))
}

// Slog exposes the underlying logger for middleware that takes attrs.
func (s *SlogLogger) Slog() *slog.Logger {
	return s.l
}
