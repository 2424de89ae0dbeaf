package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		want  slog.Level
		known bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := ParseLevel(tt.name)
			assert.Equal(t, tt.want, level)
			assert.Equal(t, tt.known, ok)
		})
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", false)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "key=value")
}

func TestNew_DebugOverridesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "error", true)

	logger.Debug("fetch started")
	assert.Contains(t, buf.String(), "fetch started")
}

func TestNew_UnknownLevelWarns(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "loud", false)
	assert.Contains(t, buf.String(), "invalid log level configured")
}
