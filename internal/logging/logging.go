// Package logging sets up the process-wide slog logger.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures the default slog logger. Format "json" emits one JSON
// object per line for log shippers; anything else gets colorized
// human-readable output for local development.
func Setup(format, level string) *slog.Logger {
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: parseLevel(level),
		})
	} else {
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      parseLevel(level),
			TimeFormat: time.TimeOnly,
		})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
