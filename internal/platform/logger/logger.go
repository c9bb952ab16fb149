// Package logger provides structured logging functionality for the application.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// contextKey is the private type for the logger context key.
type contextKey struct{}

// loggerKey is the key under which the request-scoped logger is stored.
var loggerKey = contextKey{}

// Setup initializes the application's logging system based on the given log
// level. It creates a structured JSON logger writing to stdout, sets it as
// the process default and returns it.
func Setup(logLevel string) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

// WithContext returns a new context carrying the given logger.
func WithContext(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext retrieves the logger stored in the context, falling back to
// the process default logger when none is present.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return log
	}
	return slog.Default()
}

// FromContextOrDefault retrieves the logger stored in the context, falling
// back to the provided logger when none is present.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if log, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return log
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
