// server/internal/logger/logger.go
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"food-facilities-api-server/config"
)

// New builds a slog.Logger from cfg, writes to stderr and installs it as the
// default logger. Format "json" is for production; anything else is text
// with source locations. Unknown levels fall back to info.
func New(cfg config.LogConfig) *slog.Logger {
	logger := newWithWriter(cfg, os.Stderr)
	slog.SetDefault(logger)
	return logger
}

func newWithWriter(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: !strings.EqualFold(cfg.Format, "json"),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
