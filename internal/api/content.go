package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"successpath/internal/playlist"
)

// DietPlan is passed through as received.
type DietPlan = json.RawMessage

type ContentService struct {
	client *Client
}

func NewContentService(c *Client) *ContentService {
	return &ContentService{client: c}
}

func (s *ContentService) DailyQuote(ctx context.Context) (string, error) {
	var resp struct {
		Quote string `json:"quote"`
	}
	if err := s.client.Do(ctx, http.MethodGet, "/quotes/daily", nil, &resp); err != nil {
		return "", err
	}
	return resp.Quote, nil
}

// WorkoutMusic accepts either a bare track array or an object with a tracks
// field.
func (s *ContentService) WorkoutMusic(ctx context.Context, genre string) ([]playlist.Track, error) {
	var raw json.RawMessage
	path := "/music/workout?genre=" + url.QueryEscape(genre)
	if err := s.client.Do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	var tracks []playlist.Track
	if err := json.Unmarshal(raw, &tracks); err == nil {
		return tracks, nil
	}
	var wrapped struct {
		Tracks []playlist.Track `json:"tracks"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, &RequestError{Method: http.MethodGet, Path: "/music/workout", Status: http.StatusOK, Err: err}
	}
	return wrapped.Tracks, nil
}

func (s *ContentService) DietPlan(ctx context.Context, goals string) (DietPlan, error) {
	var plan json.RawMessage
	err := s.client.Do(ctx, http.MethodGet, "/diet/plan?goals="+url.QueryEscape(goals), nil, &plan)
	return plan, err
}
