package common

import (
	"context"
	"log/slog"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRequestID contextKey = "request_id"
	ContextKeyDocument  contextKey = "document"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// WithDocument tags the context with the title of the document being processed
func WithDocument(ctx context.Context, title string) context.Context {
	return context.WithValue(ctx, ContextKeyDocument, title)
}

// DocumentFromContext extracts the document title from context
func DocumentFromContext(ctx context.Context) string {
	if title, ok := ctx.Value(ContextKeyDocument).(string); ok {
		return title
	}
	return ""
}

// LoggerFromContext decorates logger with the values carried by ctx.
func LoggerFromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if id := RequestIDFromContext(ctx); id != "" {
		logger = logger.With("request_id", id)
	}
	if title := DocumentFromContext(ctx); title != "" {
		logger = logger.With("document", title)
	}
	return logger
}
