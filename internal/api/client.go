// Package api talks to the remote collaborators: auth, activity and content.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("collaborator error")
)

// RequestError describes a failed collaborator call. Status is 0 when no
// response was received.
type RequestError struct {
	Method string
	Path   string
	Status int
	Err    error
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.Path, e.Status, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Observer is called once per request with the response status (0 on
// transport failure).
type Observer func(method, path string, status int, elapsed time.Duration)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observe = o }
}

func WithSession(s *Session) Option {
	return func(c *Client) { c.session = s }
}

// Client is a JSON client for the collaborator base URL. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	observe    Observer
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		session:    NewSession(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *Session {
	return c.session
}

// Do sends body as JSON (when non-nil) and decodes the response into out
// (when non-nil). The bearer token is attached only while the session holds an
// unexpired token.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	route := path
	if i := strings.IndexByte(route, '?'); i >= 0 {
		route = route[:i]
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.session.Bearer(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(method, route, 0, start)
		return &RequestError{Method: method, Path: route, Err: err}
	}
	defer resp.Body.Close()
	c.record(method, route, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.DebugContext(ctx, "Collaborator request failed",
			"method", method, "path", route, "status_code", resp.StatusCode, "body", string(detail))
		return &RequestError{Method: method, Path: route, Status: resp.StatusCode, Err: statusError(resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{Method: method, Path: route, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func (c *Client) record(method, path string, status int, start time.Time) {
	if c.observe != nil {
		c.observe(method, path, status, time.Since(start))
	}
}

func statusError(code int) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return ErrServer
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}
