// Package logging provides the production Logger implementation backed
// by zap. This is in external-adapters to isolate the external
// dependency.
package logging

import (
	"go.uber.org/zap"

	"github.com/ochairo/decant/internal/domain/interfaces"
)

// ZapLogger implements interfaces.Logger on top of a zap logger
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger creates a console-friendly zap logger. debug lowers the
// level to include Debug output.
func NewZapLogger(debug bool) (*ZapLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &ZapLogger{logger: logger}, nil
}

// Debug logs debug-level messages
func (z *ZapLogger) Debug(msg string, fields ...interfaces.Field) {
	z.logger.Debug(msg, zapFields(fields)...)
}

// Info logs informational messages
func (z *ZapLogger) Info(msg string, fields ...interfaces.Field) {
	z.logger.Info(msg, zapFields(fields)...)
}

// Warn logs warning messages
func (z *ZapLogger) Warn(msg string, fields ...interfaces.Field) {
	z.logger.Warn(msg, zapFields(fields)...)
}

// Error logs error messages
func (z *ZapLogger) Error(msg string, fields ...interfaces.Field) {
	z.logger.Error(msg, zapFields(fields)...)
}

// Sync flushes buffered log entries; call before process exit
func (z *ZapLogger) Sync() {
	//nolint:errcheck // Sync on stderr is best effort
	_ = z.logger.Sync()
}

func zapFields(fields []interfaces.Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		out[i] = zap.Any(f.Key, f.Value)
	}
	return out
}
