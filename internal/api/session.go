package api

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session holds the bearer token issued by the auth collaborator. The token is
// never verified locally; only its exp claim is read.
type Session struct {
	mu    sync.RWMutex
	token string
	now   func() time.Time
}

func NewSession() *Session {
	return &Session{now: time.Now}
}

func (s *Session) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *Session) Clear() {
	s.Set("")
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Expired reports whether the token's exp claim is in the past. A token
// without exp never expires; one that cannot be decoded counts as expired.
func (s *Session) Expired() bool {
	token := s.Token()
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return true
	}
	if exp == nil {
		return false
	}
	return !s.now().Before(exp.Time)
}

// Bearer returns the token to send, if any.
func (s *Session) Bearer() (string, bool) {
	token := s.Token()
	if token == "" || s.Expired() {
		return "", false
	}
	return token, true
}
