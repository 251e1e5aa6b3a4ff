package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllowWindow(t *testing.T) {
	l := NewLimiter(2, time.Hour)
	defer l.Stop()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatalf("first two requests should pass")
	}
	if l.Allow("a") {
		t.Fatalf("third request inside the window should be rejected")
	}
	if !l.Allow("b") {
		t.Fatalf("clients are limited independently")
	}
	now = now.Add(time.Minute)
	if !l.Allow("a") {
		t.Fatalf("new window should reset the count")
	}
}

func TestSweepForgetsIdleClients(t *testing.T) {
	l := NewLimiter(5, time.Hour)
	defer l.Stop()
	now := time.Now()
	l.now = func() time.Time { return now }
	l.Allow("a")
	now = now.Add(11 * time.Minute)
	l.Allow("b")
	l.Sweep()
	if got := l.ActiveClients(); got != 1 {
		t.Fatalf("active clients = %d, want 1", got)
	}
}

func TestMiddlewareLimitsWritesOnly(t *testing.T) {
	l := NewLimiter(1, time.Hour)
	defer l.Stop()
	rejected := 0
	h := l.Middleware(func(*http.Request) string { return "ip" }, func(*http.Request) { rejected++ })(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	codes := []int{}
	for _, m := range []string{http.MethodPost, http.MethodPost, http.MethodGet, http.MethodDelete} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(m, "/finance/transactions", nil))
		codes = append(codes, rec.Code)
	}
	want := []int{http.StatusNoContent, http.StatusTooManyRequests, http.StatusNoContent, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("codes = %v, want %v", codes, want)
		}
	}
	if rejected != 2 {
		t.Fatalf("onLimit called %d times, want 2", rejected)
	}
}
