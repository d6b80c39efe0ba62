// Package logging configures the process-wide slog logger. Output goes to
// a file so it does not interfere with the terminal UI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps a config string to a slog level. Unknown strings are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// New returns a text logger writing to w.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ToFile opens (appending) path and installs a logger writing to it as the
// default. An empty path discards logs. The returned closer must be closed
// on exit.
func ToFile(path, level string) (*slog.Logger, io.Closer, error) {
	if path == "" {
		l := New(io.Discard, level)
		slog.SetDefault(l)
		return l, io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open log file: %w", err)
	}
	l := New(f, level)
	slog.SetDefault(l)
	return l, f, nil
}
