package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
)

type ctxKey string

const requestIDKey ctxKey = "requestID"

// New builds a logger for cfg writing to w. Text output goes through tint.
func New(cfg Config, w io.Writer) *slog.Logger {
	var handler slog.Handler
	if cfg.IsJSON() {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     cfg.LogLevel(),
			AddSource: cfg.AddSource,
		})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel(),
			AddSource:  cfg.AddSource,
			TimeFormat: time.Kitchen,
		})
	}
	return slog.New(handler.WithAttrs(cfg.BaseAttributes()))
}

// Init installs the logger for cfg as the slog default
func Init(cfg Config) *slog.Logger {
	l := New(cfg, os.Stderr)
	slog.SetDefault(l)
	return l
}

// GenerateRequestID creates a new UUID for tracing requests.
func GenerateRequestID() string {
	return uuid.NewString()
}

// WithRequestID returns a new context containing the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request ID from the context, if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}

// FromContext returns a logger that includes the request_id attribute when present.
func FromContext(ctx context.Context) *slog.Logger {
	if id, ok := RequestIDFromContext(ctx); ok {
		return slog.Default().With("request_id", id)
	}
	return slog.Default()
}
