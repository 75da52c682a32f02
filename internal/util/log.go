// Package util holds small helpers shared by the mockup packages: logger
// plumbing, file helpers and a bounded HTTP fetch.
package util

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger creates a logger with timestamps that writes to w at level.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// ParseLevel maps a config string to a level, defaulting to info.
func ParseLevel(s string) log.Level {
	l, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return l
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// Default returns a stderr logger at info level.
func Default() *log.Logger { return NewLogger(os.Stderr, log.InfoLevel) }

type ctxKey int

const loggerKey ctxKey = 0

// WithLogger attaches l to ctx.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// LoggerFromContext returns the logger attached to ctx or log.Default().
func LoggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// Elapsed logs msg with the time since start, rounded to milliseconds.
func Elapsed(l *log.Logger, start time.Time, msg string, keyvals ...any) {
	l.Info(msg, append(keyvals, "took", time.Since(start).Round(time.Millisecond))...)
}
