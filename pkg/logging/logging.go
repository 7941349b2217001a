// Package logging configures structured logging for the SplitzyTip binaries.
//
// Usage:
//
//	logger := logging.Setup()                  // from LOG_LEVEL / LOG_FORMAT
//	logger := logging.New(os.Stderr, opts)     // explicit options
//
// Environment variables:
//
//	LOG_LEVEL:  debug, info, warn, error (default: info)
//	LOG_FORMAT: text (colored, default) or json
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Options selects the handler built by New.
type Options struct {
	Level slog.Level
	JSON  bool
	// NoColor disables ANSI colors in text output.
	NoColor bool
}

// Setup builds a logger from the environment and installs it as the slog default.
func Setup() *slog.Logger {
	logger := New(os.Stderr, OptionsFromEnv())
	slog.SetDefault(logger)
	return logger
}

// New returns a logger writing to w. Text output is colored with tint;
// JSON output suits log collectors in production.
func New(w io.Writer, opts Options) *slog.Logger {
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     opts.Level,
			AddSource: true,
		}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      opts.Level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
		NoColor:    opts.NoColor,
	}))
}

// OptionsFromEnv reads LOG_LEVEL and LOG_FORMAT.
func OptionsFromEnv() Options {
	return Options{
		Level: ParseLevel(os.Getenv("LOG_LEVEL")),
		JSON:  strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_FORMAT")), "json"),
	}
}

// ParseLevel maps a level name to a slog.Level, defaulting to INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// Discard returns a logger that drops everything, for tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
