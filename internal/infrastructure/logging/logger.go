// Package logging threads a zap.SugaredLogger through context.Context,
// generalising the teacher's ContainerLogger (internal/application/common
// in the teacher repo), which only ever wraps a no-op, into a real
// structured-logging backend with the same WithLogger/FromContext
// threading shape.
package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.SugaredLogger configured for either "json" or
// "console" format at the given level (debug|info|warn|error).
func New(level, format string) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return z.Sugar(), nil
}

type contextKey int

const loggerKey contextKey = iota

// WithLogger attaches a logger to ctx, following the same
// WithLogger/LoggerFromContext shape the teacher uses for its
// ContainerLogger.
func WithLogger(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from ctx, or a no-op logger if absent.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if logger, ok := ctx.Value(loggerKey).(*zap.SugaredLogger); ok {
		return logger
	}
	return zap.NewNop().Sugar()
}
