package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   slog.Level
		wantOK bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{" Error ", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := logger.ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestSetup(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	l, err := logger.Setup(config.ServerConfig{LogLevel: "warn"})
	require.NoError(t, err)
	require.NotNil(t, l)

	assert.Same(t, l, slog.Default())
	assert.False(t, l.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, l.Enabled(context.Background(), slog.LevelWarn))
}

func TestContextLogger(t *testing.T) {
	fallback, _ := logger.GetTestLogger(t)
	scoped, buf := logger.GetTestLogger(t)

	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))

	ctx := logger.WithLogger(context.Background(), scoped.With("trace_id", "abc"))
	logger.FromContextOrDefault(ctx, fallback).Info("hello")

	entry := logger.FindEntry(t, buf, "hello")
	assert.Equal(t, "abc", entry["trace_id"])

	assert.NotNil(t, logger.FromContext(context.Background()))
}
