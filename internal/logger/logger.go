// Package logger holds the process-wide structured logger used by the CLI,
// the scenario runner, and the seed loader.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// L is the global logger instance. It discards all output until Init enables it.
var L *slog.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	Level   slog.Level // Minimum log level
	Format  string     // "text" (default) or "json"
	Writer  io.Writer  // Destination. Default: os.Stderr
}

// Init configures logging. Call before any log calls.
func Init(opts Options) error {
	if !opts.Enabled {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	hopts := &slog.HandlerOptions{Level: opts.Level}

	switch opts.Format {
	case "", FormatText:
		L = slog.New(slog.NewTextHandler(w, hopts))
	case FormatJSON:
		L = slog.New(slog.NewJSONHandler(w, hopts))
	default:
		return fmt.Errorf("unknown log format %q", opts.Format)
	}
	return nil
}

// ParseLevel maps a config string to Options. "off" or "" disables logging.
func ParseLevel(s string) (enabled bool, level slog.Level, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off", "none":
		return false, 0, nil
	case "debug":
		return true, slog.LevelDebug, nil
	case "info":
		return true, slog.LevelInfo, nil
	case "warn", "warning":
		return true, slog.LevelWarn, nil
	case "error":
		return true, slog.LevelError, nil
	default:
		return false, 0, fmt.Errorf("unknown log level %q", s)
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }
