// Package trace assigns request IDs and reports each finished request.
package trace

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"successpath/internal/log"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// HeaderRequestID is echoed on every response.
const HeaderRequestID = "X-Request-ID"

// Observer receives one call per finished request.
type Observer func(r *http.Request, route string, status int, elapsed time.Duration)

type Middleware struct {
	clientIP func(*http.Request) string
	observe  Observer
	logger   *log.Logger
}

func New(logger *log.Logger, clientIP func(*http.Request) string, observe Observer) *Middleware {
	return &Middleware{clientIP: clientIP, observe: observe, logger: logger}
}

func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = NewRequestID()
		}
		w.Header().Set(HeaderRequestID, id)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		ctx = log.IntoContext(ctx, m.logger.With(log.FieldRequestID, id))
		r = r.WithContext(ctx)

		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		elapsed := time.Since(start)
		ip := ""
		if m.clientIP != nil {
			ip = m.clientIP(r)
		}
		log.LogRequest(ctx, r, rw.status, elapsed.Milliseconds(), ip)
		if m.observe != nil {
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.observe(r, route, rw.status, elapsed)
		}
	})
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// NewRequestID returns a time-ordered identifier.
func NewRequestID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// RequestID returns the ID stored by the middleware, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
