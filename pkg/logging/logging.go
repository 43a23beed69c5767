// Package logging configures the process-wide slog logger.
//
// Logs always go to stderr: stdout is reserved for the generated script.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options controls the default logger.
type Options struct {
	// Debug lowers the level to DEBUG.
	Debug bool
	// JSON switches from the text handler to the JSON handler.
	JSON bool
	// Level is a slog level name (debug, info, warn, error). Ignored when Debug is set.
	Level string
	// Writer overrides the destination, mostly for tests. Defaults to os.Stderr.
	Writer io.Writer
}

// SetDefaultStructuredLogger installs a logger tagged with the program name
// and version as the slog default.
func SetDefaultStructuredLogger(name, version string, opts Options) *slog.Logger {
	logger := NewStructuredLogger(name, version, opts)
	slog.SetDefault(logger)
	return logger
}

// NewStructuredLogger builds a logger without installing it.
func NewStructuredLogger(name, version string, opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	ho := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	if opts.Debug {
		ho.Level = slog.LevelDebug
		ho.AddSource = true
	}

	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, ho)
	} else {
		h = slog.NewTextHandler(w, ho)
	}

	return slog.New(h).With(
		slog.String("module", name),
		slog.String("version", version),
	)
}

// ParseLevel converts a level name to a slog.Level, defaulting to INFO.
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
