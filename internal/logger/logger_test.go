package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warning ", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in, slog.LevelInfo))
		})
	}
}

func TestDefaultConfig_EnvLevel(t *testing.T) {
	t.Setenv("TRUESHUFFLE_LOG_LEVEL", "debug")
	cfg := DefaultConfig()
	assert.Equal(t, slog.LevelDebug, cfg.Level)
	assert.Equal(t, FormatText, cfg.Format)
}

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{FormatText, FormatJSON, FormatPretty} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewLogger(Config{Level: slog.LevelInfo, Format: format, Output: &buf})

			log.Debug("hidden")
			log.Info("skip handled", slog.String("track", "spotify:track:a"))

			out := buf.String()
			assert.Contains(t, out, "skip handled")
			assert.Contains(t, out, "spotify:track:a")
			assert.NotContains(t, out, "hidden")
		})
	}
}
