// Package requestctx carries a per-invocation request ID and request-scoped
// logger through context.Context.
package requestctx

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// KeyRequestID is the key for storing request ID in context.
	KeyRequestID ContextKey = "request_id"

	// KeyLogger is the key for storing request-scoped logger in context.
	KeyLogger ContextKey = "logger"
)

// New tags ctx with a fresh request ID and a logger that carries it.
func New(ctx context.Context, logger *slog.Logger) context.Context {
	requestID := uuid.NewString()
	ctx = WithRequestID(ctx, requestID)

	return WithLogger(ctx, logger.With(slog.String("request_id", requestID)))
}

// RequestID extracts the request ID from ctx. It returns an empty string when none is set.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(KeyRequestID).(string); ok {
		return id
	}

	return ""
}

// WithRequestID returns a new context with the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// Logger returns the request-scoped logger, or fallback when ctx carries none.
func Logger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(KeyLogger).(*slog.Logger); ok {
		return logger
	}

	return fallback
}

// WithLogger returns a new context with the logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}
