package log

import (
	"io"
	"log/slog"
	"strings"
)

// Config represents logging configuration.
type Config struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// ParseLevel parses string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewFromConfig builds a logger writing to w as described by cfg.
func NewFromConfig(cfg Config, w io.Writer) Logger {
	level := ParseLevel(cfg.Level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		return NewJSONLogger(w, level)
	default:
		return NewTextLogger(w, level)
	}
}
