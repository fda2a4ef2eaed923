package telemetry

import (
	"context"
	"github.com/stretchr/testify/require"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			require.Equal(t, tt.expected, ParseLevel(tt.level))
		})
	}
}

func TestNew_Disabled(t *testing.T) {
	shutdown, err := New("tinysql", "test", "")
	require.NoError(t, err)
	shutdown()

	ctx, span := StartSpan(context.Background(), "noop")
	defer span.End()
	require.NotNil(t, ctx)
	require.NotNil(t, Meter())
}
