// Package logging builds the slog loggers used by the game.
//
// The terminal belongs to the renderer while a round is running, so logs
// normally go to a file. Three formats are supported: "pretty" (indented
// JSON, one object per record), "json" and "text".
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	FormatPretty = "pretty"
	FormatJSON   = "json"
	FormatText   = "text"
)

// ParseLevel accepts debug, info, warn and error (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level %q: %w", s, err)
	}
	return level, nil
}

// ValidFormat reports whether format is one New understands.
func ValidFormat(format string) bool {
	switch format {
	case FormatPretty, FormatJSON, FormatText:
		return true
	}
	return false
}

// New returns a logger writing to w in the given format.
func New(w io.Writer, format string, level slog.Level) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch format {
	case FormatPretty:
		h = NewPrettyJSONHandler(w, opts)
	case FormatJSON:
		h = slog.NewJSONHandler(w, opts)
	case FormatText:
		h = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return slog.New(h), nil
}

// Open returns a logger writing to path. "-" writes to stderr. The returned
// close func is never nil.
func Open(path, format string, level slog.Level) (*slog.Logger, func() error, error) {
	if path == "-" {
		l, err := New(os.Stderr, format, level)
		return l, func() error { return nil }, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	l, err := New(f, format, level)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return l, f.Close, nil
}
