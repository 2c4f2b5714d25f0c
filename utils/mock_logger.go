package utils

import (
	"strings"
	"sync"
)

// LogEntry is a single captured log call.
type LogEntry struct {
	Level   LogLevel
	Message string
	Fields  []any
}

// MockLogger records log calls for inspection in tests.
type MockLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) record(level LogLevel, msg string, keysAndValues []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, LogEntry{Level: level, Message: msg, Fields: keysAndValues})
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) {
	m.record(LogLevelDebug, msg, keysAndValues)
}

func (m *MockLogger) Info(msg string, keysAndValues ...any) {
	m.record(LogLevelInfo, msg, keysAndValues)
}

func (m *MockLogger) Warn(msg string, keysAndValues ...any) {
	m.record(LogLevelWarn, msg, keysAndValues)
}

func (m *MockLogger) Error(msg string, keysAndValues ...any) {
	m.record(LogLevelError, msg, keysAndValues)
}

// Entries returns a copy of all captured log calls.
func (m *MockLogger) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LogEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Contains reports whether any captured message contains the substring.
func (m *MockLogger) Contains(substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
