package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, Config{Level: tt.level}.LogLevel())
		})
	}
}

func TestNewJSONIncludesBaseAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := New(NewConfig("info", "json", "", "1.2.3", "test", false), &buf)

	l.Debug("hidden")
	l.Info("hello", "student_id", "42")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, DefaultServiceName, entry["service"])
	assert.Equal(t, "1.2.3", entry["version"])
	assert.Equal(t, "test", entry["environment"])
	assert.Equal(t, "42", entry["student_id"])
}

func TestNewTextWritesOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(NewConfig("debug", "text", "sumo", "dev", "dev", false), &buf)

	l.Debug("lookup started")
	assert.Contains(t, buf.String(), "lookup started")
}

func TestRequestIDRoundTrip(t *testing.T) {
	_, ok := RequestIDFromContext(context.Background())
	assert.False(t, ok)

	id := GenerateRequestID()
	ctx := WithRequestID(context.Background(), id)

	got, ok := RequestIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)
	assert.NotNil(t, FromContext(ctx))
}
