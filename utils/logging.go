// Package utils provides shared infrastructure for the reformat library:
// logging, run-artifact capture, and token estimation.
package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel controls how much a logger emits. It is fixed at construction;
// callers wanting a different level build a new logger.
type LogLevel int

const (
	LogLevelOff LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// Logger is the logging interface used across the library. Implementations
// must accept alternating key/value pairs after the message.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// DefaultLogger writes structured log lines to stderr via log/slog. Level
// filtering is delegated to the slog handler.
type DefaultLogger struct {
	logger *slog.Logger
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func NewLogger(level LogLevel) *DefaultLogger {
	out := io.Writer(os.Stderr)
	if level == LogLevelOff {
		out = io.Discard
	}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level.slogLevel()})
	return &DefaultLogger{logger: slog.New(handler)}
}

func (l *DefaultLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *DefaultLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *DefaultLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn(msg, keysAndValues...)
}

func (l *DefaultLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
}

func (l LogLevel) String() string {
	names := [...]string{"OFF", "ERROR", "WARN", "INFO", "DEBUG"}
	if int(l) >= 0 && int(l) < len(names) {
		return names[l]
	}
	return fmt.Sprintf("LogLevel(%d)", int(l))
}

// UnmarshalText lets LogLevel be parsed directly from environment variables.
func (l *LogLevel) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "OFF":
		*l = LogLevelOff
	case "ERROR":
		*l = LogLevelError
	case "WARN":
		*l = LogLevelWarn
	case "INFO":
		*l = LogLevelInfo
	case "DEBUG":
		*l = LogLevelDebug
	default:
		return fmt.Errorf("invalid log level: %s", string(text))
	}
	return nil
}
