// Package logging builds the structured logger shared by the server and tools.
//
// Production and CI get JSON lines on stderr; development and test get the
// human readable text handler. The level comes from configuration (LOG_LEVEL).
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a logger writing to w tagged with the service name
func NewLogger(w io.Writer, service string, level string, jsonFormat bool) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	var handler slog.Handler
	if jsonFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("service", service)
}

// SetDefault installs a stderr logger as the process default and returns it
func SetDefault(service string, level string, jsonFormat bool) *slog.Logger {
	logger := NewLogger(os.Stderr, service, level, jsonFormat)
	slog.SetDefault(logger)
	return logger
}
