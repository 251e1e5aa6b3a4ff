// Package ratelimit throttles mutating requests per client with a fixed
// one-minute window.
package ratelimit

import (
	"net/http"
	"sync"
	"time"
)

const (
	window     = time.Minute
	staleAfter = 10 * time.Minute
)

type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type client struct {
	windowStart time.Time
	requests    int
	lastSeen    time.Time
}

// NewLimiter allows perMinute requests per client; values below 1 fall back
// to 60. Call Stop to end the background sweep.
func NewLimiter(perMinute int, sweepEvery time.Duration) *Limiter {
	if perMinute < 1 {
		perMinute = 60
	}
	if sweepEvery <= 0 {
		sweepEvery = 5 * time.Minute
	}
	l := &Limiter{
		clients: make(map[string]*client),
		limit:   perMinute,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go l.sweepLoop(sweepEvery)
	return l
}

// Allow records one request for key and reports whether it fits the window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.clients[key]
	if !ok || now.Sub(c.windowStart) >= window {
		l.clients[key] = &client{windowStart: now, requests: 1, lastSeen: now}
		return true
	}
	c.requests++
	c.lastSeen = now
	return c.requests <= l.limit
}

func (l *Limiter) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-l.stop:
			return
		}
	}
}

// Sweep forgets clients idle for more than ten minutes.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-staleAfter)
	for k, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, k)
		}
	}
}

func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// Middleware limits POST, PUT, PATCH and DELETE; reads pass through.
// onLimit, when non-nil, is called for every rejected request.
func (l *Limiter) Middleware(clientIP func(*http.Request) string, onLimit func(*http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isWrite(r.Method) && !l.Allow(clientIP(r)) {
				if onLimit != nil {
					onLimit(r)
				}
				w.Header().Set("Retry-After", "60")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
