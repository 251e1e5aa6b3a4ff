// Package security resolves client addresses behind proxies and sets
// response headers for the JSON API.
package security

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Resolver extracts the client IP, trusting forwarding headers only when the
// direct peer is a trusted proxy.
type Resolver struct {
	trusted []*net.IPNet
}

// NewResolver trusts loopback and private ranges plus any extra CIDRs.
func NewResolver(extra ...string) (*Resolver, error) {
	r := &Resolver{}
	for _, cidr := range append([]string{"127.0.0.0/8", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16", "::1/128"}, extra...) {
		_, n, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", cidr, err)
		}
		r.trusted = append(r.trusted, n)
	}
	return r, nil
}

func (r *Resolver) ClientIP(req *http.Request) string {
	direct, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		direct = req.RemoteAddr
	}
	ip := net.ParseIP(direct)
	if ip == nil || !r.isTrusted(ip) {
		return direct
	}
	if xff := req.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}
	if xri := strings.TrimSpace(req.Header.Get("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}
	return direct
}

func (r *Resolver) isTrusted(ip net.IP) bool {
	for _, n := range r.trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// Headers sets conservative headers on every API response.
func Headers(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		h.Set("Cross-Origin-Resource-Policy", "same-origin")
		if r.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}
