// Package logging defines the structured-logging interface used across the
// client. Two backends are provided: log/slog (default) and zerolog for a
// human-friendly console format.
package logging

import (
	"context"
	"io"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "session changed", "user_id", id, "seq", seq)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// New builds a Logger writing to w. format is "json", "text" or "console";
// level is "debug", "info", "warn" or "error". Unknown values fall back to
// json and info.
func New(level, format string, w io.Writer) Logger {
	switch strings.ToLower(format) {
	case "console":
		return NewZerologLogger(w, level)
	case "text":
		return NewSlogText(w, level)
	default:
		return NewSlogJSON(w, level)
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogJSON(io.Discard, "error")
}
