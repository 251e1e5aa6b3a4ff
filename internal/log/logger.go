// Package log wraps log/slog with a component-scoped logger.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger tags every record with its component.
type Logger struct {
	*slog.Logger
	component string
}

// New builds a text logger writing to w (stdout when nil).
func New(w io.Writer, level slog.Level, component string) *Logger {
	if w == nil {
		w = os.Stdout
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(h).With(FieldComponent, component), component: component}
}

// Default wraps slog.Default under component.
func Default(component string) *Logger {
	return &Logger{Logger: slog.Default().With(FieldComponent, component), component: component}
}

// WithComponent returns a logger scoped to another component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With(FieldComponent, component), component: component}
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), component: l.component}
}

func (l *Logger) Component() string {
	return l.component
}

// Failure logs err at error level with an operation tag.
func (l *Logger) Failure(ctx context.Context, msg, op string, err error, args ...any) {
	f := NewFields().WithOperation(op).WithError(err)
	l.ErrorContext(ctx, msg, append(f.Args(), args...)...)
}

// SetDefault installs l as the process-wide slog logger.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}

// ParseLevel maps debug|info|warn|error to a slog level, defaulting to info.
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
