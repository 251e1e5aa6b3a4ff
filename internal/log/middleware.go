package log

import (
	"context"
	"log/slog"
	"net/http"
)

type contextKey string

const loggerKey contextKey = "logger"

// IntoContext stores l in ctx.
func IntoContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the request logger, or the default one.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerKey).(*Logger); ok {
		return l
	}
	return Default(ComponentApp)
}

// LogRequest records a finished request; 4xx at warn and 5xx at error.
func LogRequest(ctx context.Context, r *http.Request, status int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}
	f := NewFields().WithRequest(r.Method, r.URL.Path, r.URL.RawQuery).WithResponse(status, durationMs)
	f[FieldClientIP] = clientIP
	FromContext(ctx).Log(ctx, level, "HTTP request completed", f.Args()...)
}
