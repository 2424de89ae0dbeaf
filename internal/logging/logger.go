// Package logging sets up structured logging for the application.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel converts a level name (case-insensitive) to a slog.Level.
// The second result is false for unknown names, which map to info.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// New returns a text logger writing to w at the configured level.
// debug forces the debug level regardless of levelName.
func New(w io.Writer, levelName string, debug bool) *slog.Logger {
	level, ok := ParseLevel(levelName)
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)

	if !ok {
		logger.Warn("invalid log level configured, using default level",
			"configured_level", levelName,
			"default_level", "info")
	}
	return logger
}
