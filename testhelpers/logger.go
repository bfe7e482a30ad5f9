package testhelpers

import (
	"fmt"
	"strings"
	"sync"
)

// Log levels recorded by LogRecorder
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogEntry is one formatted log line
type LogEntry struct {
	Level   string
	Message string
}

// LogRecorder captures engine log output for assertions
type LogRecorder struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewLogRecorder creates an empty recorder
func NewLogRecorder() *LogRecorder {
	return &LogRecorder{}
}

func (l *LogRecorder) record(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	l.entries = append(l.entries, LogEntry{Level: level, Message: msg})
}

// Debug records a debug message
func (l *LogRecorder) Debug(format string, args ...interface{}) {
	l.record(LevelDebug, format, args...)
}

// Info records an info message
func (l *LogRecorder) Info(format string, args ...interface{}) {
	l.record(LevelInfo, format, args...)
}

// Warn records a warning
func (l *LogRecorder) Warn(format string, args ...interface{}) {
	l.record(LevelWarn, format, args...)
}

// Error records an error message
func (l *LogRecorder) Error(format string, args ...interface{}) {
	l.record(LevelError, format, args...)
}

// Messages returns the messages logged at level
func (l *LogRecorder) Messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.entries {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// Contains reports whether any message at level contains substr
func (l *LogRecorder) Contains(level, substr string) bool {
	for _, msg := range l.Messages(level) {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}
