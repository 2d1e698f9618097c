// Package interfaces defines core domain contracts.
//
//nolint:revive // Package name 'interfaces' is intentional for domain layer
package interfaces

import (
	"fmt"
	"os"
)

// Logger defines the interface for structured logging
type Logger interface {
	// Debug logs debug-level messages
	Debug(msg string, fields ...Field)

	// Info logs informational messages
	Info(msg string, fields ...Field)

	// Warn logs warning messages
	Warn(msg string, fields ...Field)

	// Error logs error messages
	Error(msg string, fields ...Field)
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

// F creates a new Field (convenience function)
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// NoOpLogger is a logger that does nothing (useful for tests)
type NoOpLogger struct{}

// Debug does nothing (no-op implementation)
func (n *NoOpLogger) Debug(_ string, _ ...Field) {}

// Info does nothing (no-op implementation)
func (n *NoOpLogger) Info(_ string, _ ...Field) {}

// Warn does nothing (no-op implementation)
func (n *NoOpLogger) Warn(_ string, _ ...Field) {}

// Error does nothing (no-op implementation)
func (n *NoOpLogger) Error(_ string, _ ...Field) {}

// TextLogger writes plain level-prefixed lines to stderr. Used by
// commands that run without the production logger (dry-run validation).
type TextLogger struct{}

// Debug logs debug-level messages to stderr
func (s *TextLogger) Debug(msg string, fields ...Field) {
	s.log("DEBUG", msg, fields)
}

// Info logs informational messages to stderr
func (s *TextLogger) Info(msg string, fields ...Field) {
	s.log("INFO", msg, fields)
}

// Warn logs warning messages to stderr
func (s *TextLogger) Warn(msg string, fields ...Field) {
	s.log("WARN", msg, fields)
}

func (s *TextLogger) Error(msg string, fields ...Field) {
	s.log("ERROR", msg, fields)
}

func (s *TextLogger) log(level, msg string, fields []Field) {
	fmt.Fprintf(os.Stderr, "%s: %s", level, msg)
	for _, f := range fields {
		fmt.Fprintf(os.Stderr, " %s=%v", f.Key, f.Value)
	}
	fmt.Fprintln(os.Stderr)
}
