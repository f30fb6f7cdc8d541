// Package logger builds slog loggers from environment-driven configuration
// and ships nil-safe attribute helpers for common fields.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Config controls logger construction, loadable via core/config.
type Config struct {
	Level     string `env:"LOG_LEVEL" envDefault:"info"`
	Format    string `env:"LOG_FORMAT" envDefault:"json"`
	AddSource bool   `env:"LOG_ADD_SOURCE" envDefault:"false"`
}

// New creates a *slog.Logger writing to stderr. Format "text" selects the
// text handler, anything else JSON. Unknown levels fall back to info.
func New(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(os.Stderr, opts)
	} else {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(h)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
