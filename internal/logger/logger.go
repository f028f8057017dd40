package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/river-banking-ledger/internal/config"
)

// ParseLevel maps a configured level name to a slog level. Unknown names
// fall back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// NewLogger creates the JSON logger for a service writing to stdout.
func NewLogger(cfg *config.Config, service string) *slog.Logger {
	return NewLoggerWithWriter(os.Stdout, cfg, service)
}

// NewLoggerWithWriter is NewLogger with an explicit destination.
// Every record carries the app, env and service attributes.
func NewLoggerWithWriter(w io.Writer, cfg *config.Config, service string) *slog.Logger {
	level := ParseLevel(cfg.Logging.Level)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	logger := slog.New(slog.NewJSONHandler(w, opts)).With(
		"app", cfg.Application.Name,
		"env", cfg.Application.Env,
		"service", service,
	)

	logger.Info("logger initialized", "level", level.String())

	return logger
}
