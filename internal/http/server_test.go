package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"successpath/internal/api"
	"successpath/internal/core"
	"successpath/internal/finance"
	"successpath/internal/learning"
	"successpath/internal/log"
	"successpath/internal/nutrition"
	"successpath/internal/playlist"
	"successpath/internal/services"
	"successpath/internal/storage"
)

var testDay = core.NewDate(2025, 4, 2)

type fakeDiet struct {
	plan api.DietPlan
	err  error
}

func (f fakeDiet) DietPlan(context.Context, string) (api.DietPlan, error) { return f.plan, f.err }

func newTestServer(t *testing.T, mutate func(*Deps)) *Server {
	t.Helper()
	clock := func() core.Date { return testDay }
	ledger := services.NewLedger(storage.NewMemoryStore(), learning.DefaultCatalog(),
		services.WithTrackers(
			nutrition.NewTracker(nutrition.WithClock(clock)),
			finance.NewTracker(finance.WithClock(clock)),
		))
	catalog := playlist.DefaultCatalog()
	d := Deps{
		Ledger:    ledger,
		Player:    services.NewPlayer(catalog),
		Dashboard: services.NewDashboard(ledger, nil, nil),
		Music:     catalog,
		Genres:    catalog,
		Logger:    log.New(io.Discard, log.ParseLevel("error"), log.ComponentHTTP),
		Today:     clock,
	}
	if mutate != nil {
		mutate(&d)
	}
	srv := NewServer(":0", d)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestHealthReadyAndHeaders(t *testing.T) {
	srv := newTestServer(t, nil)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rr.Code)
		}
		if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Fatalf("%s missing security headers", path)
		}
		if rr.Header().Get("X-Request-ID") == "" {
			t.Fatalf("%s missing request id", path)
		}
	}

	notReady := newTestServer(t, func(d *Deps) {
		d.Ready = func(context.Context) error { return errors.New("db down") }
	})
	if rr := do(t, notReady, http.MethodGet, "/readyz", ""); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz status = %d, want 503", rr.Code)
	}
}

func TestMealsFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := do(t, srv, http.MethodPost, "/diet/meals", `{"meal_type":"Breakfast","food_item":"Oats","calories":300,"protein":"10","carbs":50,"fats":5}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rr.Code, rr.Body.String())
	}
	created := decode[nutrition.MealEntry](t, rr)

	rr = do(t, srv, http.MethodPost, "/diet/meals", `{"meal_type":"Lunch","food_item":"Soup","calories":"abc"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create lunch status = %d", rr.Code)
	}
	if got := decode[nutrition.MealEntry](t, rr); got.Calories != 0 {
		t.Fatalf("malformed calories = %v, want 0", got.Calories)
	}

	rr = do(t, srv, http.MethodGet, "/diet/meals?date=2025-04-02&meal_type=breakfast", "")
	if meals := decode[[]nutrition.MealEntry](t, rr); len(meals) != 1 || meals[0].ID != created.ID {
		t.Fatalf("filtered meals = %+v", meals)
	}
	rr = do(t, srv, http.MethodGet, "/diet/meals?meal_type=Dinner", "")
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("empty filter body = %q", rr.Body.String())
	}

	rr = do(t, srv, http.MethodGet, "/diet/macros?meal_type=Dinner", "")
	sum := decode[nutrition.DailySummary](t, rr)
	if sum.Macros.Calories != 300 || sum.Breakdown.ProteinCalories != 40 || sum.Breakdown.FatCalories != 45 {
		t.Fatalf("macros = %+v", sum)
	}

	if rr := do(t, srv, http.MethodDelete, "/diet/meals/"+created.ID, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}
	if rr := do(t, srv, http.MethodDelete, "/diet/meals/"+created.ID, ""); rr.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", rr.Code)
	}
}

func TestMealValidation(t *testing.T) {
	srv := newTestServer(t, nil)
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"missing food", http.MethodPost, "/diet/meals", `{"calories":10}`, http.StatusUnprocessableEntity},
		{"bad date", http.MethodPost, "/diet/meals", `{"food_item":"x","date":"April"}`, http.StatusUnprocessableEntity},
		{"broken json", http.MethodPost, "/diet/meals", `{"food_item":`, http.StatusBadRequest},
		{"unknown meal type", http.MethodGet, "/diet/meals?meal_type=Brunch", "", http.StatusBadRequest},
		{"bad query date", http.MethodGet, "/diet/macros?date=yesterday", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := do(t, srv, tt.method, tt.path, tt.body); rr.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestFinanceFlow(t *testing.T) {
	srv := newTestServer(t, nil)
	for _, body := range []string{
		`{"type":"income","category":"Income","amount":1000,"description":"Salary"}`,
		`{"type":"expense","category":"Housing","amount":"250"}`,
		`{"type":"expense","category":"Food","amount":-50,"date":"2025-01-15"}`,
	} {
		if rr := do(t, srv, http.MethodPost, "/finance/transactions", body); rr.Code != http.StatusCreated {
			t.Fatalf("create status = %d: %s", rr.Code, rr.Body.String())
		}
	}

	txs := decode[[]finance.Transaction](t, do(t, srv, http.MethodGet, "/finance/transactions", ""))
	if len(txs) != 3 || txs[2].Amount.String() != "50" {
		t.Fatalf("transactions = %+v", txs)
	}

	var summary struct {
		Totals  finance.Totals `json:"totals"`
		AllTime finance.Totals `json:"all_time"`
		NonNeg  bool           `json:"non_negative"`
	}
	rr := do(t, srv, http.MethodGet, "/finance/transactions/summary", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Totals.Balance.String() != "750" || summary.AllTime.Balance.String() != "700" || !summary.NonNeg {
		t.Fatalf("summary = %+v", summary)
	}

	months := decode[[]finance.MonthTotals](t, do(t, srv, http.MethodGet, "/finance/transactions/monthly?months=6", ""))
	if len(months) != 2 || months[0].Month != "2025-01" || months[1].Month != "2025-04" {
		t.Fatalf("monthly = %+v", months)
	}

	if rr := do(t, srv, http.MethodGet, "/finance/transactions/summary?days=x", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad days status = %d", rr.Code)
	}
}

func TestEmptyCollectionsEncodeAsArrays(t *testing.T) {
	srv := newTestServer(t, nil)
	for _, path := range []string{
		"/finance/transactions",
		"/finance/transactions/monthly",
		"/diet/meals",
	} {
		rr := do(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rr.Code)
		}
		if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
			t.Errorf("%s body = %s, want []", path, got)
		}
	}

	summary := decode[map[string]json.RawMessage](t, do(t, srv, http.MethodGet, "/finance/transactions/summary", ""))
	if got := string(summary["by_category"]); got != "[]" {
		t.Fatalf("by_category = %s, want []", got)
	}
}

func TestLearningFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	type result struct {
		Changed bool `json:"changed"`
		Module  struct {
			Progress int `json:"progress"`
		} `json:"module"`
	}
	steps := []struct {
		path         string
		wantStatus   int
		wantChanged  bool
		wantProgress int
	}{
		{"/learning/modules/1/lessons/1/complete", http.StatusOK, true, 25},
		{"/learning/modules/1/lessons/2/complete", http.StatusOK, true, 50},
		{"/learning/modules/1/lessons/2/complete", http.StatusOK, false, 50},
	}
	for _, st := range steps {
		rr := do(t, srv, http.MethodPost, st.path, "")
		if rr.Code != st.wantStatus {
			t.Fatalf("%s status = %d", st.path, rr.Code)
		}
		got := decode[result](t, rr)
		if got.Changed != st.wantChanged || got.Module.Progress != st.wantProgress {
			t.Fatalf("%s = %+v", st.path, got)
		}
	}

	for path, want := range map[string]int{
		"/learning/modules/9/lessons/1/complete":  http.StatusNotFound,
		"/learning/modules/1/lessons/99/complete": http.StatusNotFound,
		"/learning/modules/x/lessons/1/complete":  http.StatusBadRequest,
	} {
		if rr := do(t, srv, http.MethodPost, path, ""); rr.Code != want {
			t.Fatalf("%s status = %d, want %d", path, rr.Code, want)
		}
	}

	if rr := do(t, srv, http.MethodGet, "/learning/modules/2", ""); rr.Code != http.StatusOK {
		t.Fatalf("get module status = %d", rr.Code)
	}
	if rr := do(t, srv, http.MethodGet, "/learning/modules/3", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("missing module status = %d", rr.Code)
	}
}

func TestWorkoutFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	genres := decode[[]string](t, do(t, srv, http.MethodGet, "/workout/genres", ""))
	if len(genres) != 5 {
		t.Fatalf("genres = %v", genres)
	}
	tracks := decode[[]playlist.Track](t, do(t, srv, http.MethodGet, "/workout/music/Yoga", ""))
	if len(tracks) != 3 || tracks[0].ID != 10 {
		t.Fatalf("tracks = %+v", tracks)
	}
	if rr := do(t, srv, http.MethodGet, "/workout/music/Polka", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown genre status = %d", rr.Code)
	}

	rr := do(t, srv, http.MethodPut, "/workout/player/genre", `{"genre":"Cardio"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("set genre status = %d: %s", rr.Code, rr.Body.String())
	}
	change := decode[struct {
		Applied bool                 `json:"applied"`
		State   services.PlayerState `json:"state"`
	}](t, rr)
	if !change.Applied || change.State.CurrentTrackID == nil || *change.State.CurrentTrackID != 4 {
		t.Fatalf("genre change = %+v", change)
	}

	st := decode[services.PlayerState](t, do(t, srv, http.MethodPost, "/workout/player/previous", ""))
	if *st.CurrentTrackID != 6 {
		t.Fatalf("previous = %d, want 6", *st.CurrentTrackID)
	}
	st = decode[services.PlayerState](t, do(t, srv, http.MethodPost, "/workout/player/toggle", ""))
	if !st.IsPlaying {
		t.Fatal("toggle did not start playback")
	}
	if rr := do(t, srv, http.MethodPost, "/workout/player/tracks/1/select", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("select foreign track status = %d", rr.Code)
	}
	st = decode[services.PlayerState](t, do(t, srv, http.MethodPost, "/workout/player/tracks/5/select", ""))
	if *st.CurrentTrackID != 5 {
		t.Fatalf("selected = %d", *st.CurrentTrackID)
	}

	if rr := do(t, srv, http.MethodPut, "/workout/player/genre", `{"genre":"Polka"}`); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown genre status = %d", rr.Code)
	}
	st = decode[services.PlayerState](t, do(t, srv, http.MethodGet, "/workout/player", ""))
	if st.Genre != "Cardio" || st.Status != "failed" {
		t.Fatalf("state after failed load = %+v", st)
	}
}

func TestDietPlanAndDashboard(t *testing.T) {
	srv := newTestServer(t, nil)
	if rr := do(t, srv, http.MethodGet, "/diet/plan?goals=bulk", ""); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("unconfigured plan status = %d", rr.Code)
	}

	withDiet := newTestServer(t, func(d *Deps) {
		d.Diet = fakeDiet{plan: api.DietPlan(`{"calories":2500}`)}
	})
	rr := do(t, withDiet, http.MethodGet, "/diet/plan?goals=bulk", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "2500") {
		t.Fatalf("plan = %d %s", rr.Code, rr.Body.String())
	}

	failing := newTestServer(t, func(d *Deps) {
		d.Diet = fakeDiet{err: &api.RequestError{Method: "GET", Path: "/diet/plan", Status: 500, Err: api.ErrServer}}
	})
	if rr := do(t, failing, http.MethodGet, "/diet/plan", ""); rr.Code != http.StatusBadGateway {
		t.Fatalf("failing plan status = %d", rr.Code)
	}

	rr = do(t, srv, http.MethodGet, "/dashboard?date=2025-04-02", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", rr.Code)
	}
	view := decode[services.DashboardView](t, rr)
	if len(view.Learning) != 2 || !view.Date.SameDay(testDay) {
		t.Fatalf("dashboard = %+v", view)
	}
}

func TestRateLimitAndObserver(t *testing.T) {
	var limited int
	routes := map[string]int{}
	srv := newTestServer(t, func(d *Deps) {
		d.RateLimitPerMinute = 2
		d.OnLimit = func(*http.Request) { limited++ }
		d.Observe = func(_ *http.Request, route string, _ int, _ time.Duration) { routes[route]++ }
	})

	codes := make([]int, 0, 3)
	for range 3 {
		codes = append(codes, do(t, srv, http.MethodPost, "/diet/meals", `{"food_item":"x"}`).Code)
	}
	if codes[0] != http.StatusCreated || codes[1] != http.StatusCreated || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
	if limited != 1 {
		t.Fatalf("limited = %d", limited)
	}
	if rr := do(t, srv, http.MethodGet, "/diet/meals", ""); rr.Code != http.StatusOK {
		t.Fatalf("reads should not be limited: %d", rr.Code)
	}
	if routes["POST /diet/meals"] != 2 || routes["GET /diet/meals"] != 1 {
		t.Fatalf("routes = %v", routes)
	}
}
