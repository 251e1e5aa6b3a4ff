package api

import (
	"context"
	"net/http"
)

type (
	DailyStats struct {
		Steps         int     `json:"steps"`
		Calories      float64 `json:"calories"`
		WaterIntake   float64 `json:"water_intake"`
		ActiveMinutes int     `json:"active_minutes"`
	}

	DayStats struct {
		Date     string  `json:"date"`
		Steps    int     `json:"steps"`
		Calories float64 `json:"calories"`
	}
)

type ActivityService struct {
	client *Client
}

func NewActivityService(c *Client) *ActivityService {
	return &ActivityService{client: c}
}

func (a *ActivityService) RecordSteps(ctx context.Context, steps int) error {
	body := map[string]any{"activity_type": "steps", "steps": steps}
	return a.client.Do(ctx, http.MethodPost, "/activities/", body, nil)
}

func (a *ActivityService) RecordCalories(ctx context.Context, calories float64) error {
	body := map[string]any{"activity_type": "calories", "calories": calories}
	return a.client.Do(ctx, http.MethodPost, "/activities/", body, nil)
}

func (a *ActivityService) DailyStats(ctx context.Context) (DailyStats, error) {
	var s DailyStats
	err := a.client.Do(ctx, http.MethodGet, "/activities/daily", nil, &s)
	return s, err
}

// WeeklyStats zips the collaborator's column arrays into one row per day. Rows
// stop at the shortest column.
func (a *ActivityService) WeeklyStats(ctx context.Context) ([]DayStats, error) {
	var resp struct {
		Steps    []int     `json:"steps"`
		Calories []float64 `json:"calories"`
		Dates    []string  `json:"dates"`
	}
	if err := a.client.Do(ctx, http.MethodGet, "/activities/weekly", nil, &resp); err != nil {
		return nil, err
	}
	n := min(len(resp.Steps), len(resp.Calories), len(resp.Dates))
	days := make([]DayStats, n)
	for i := range n {
		days[i] = DayStats{Date: resp.Dates[i], Steps: resp.Steps[i], Calories: resp.Calories[i]}
	}
	return days, nil
}
