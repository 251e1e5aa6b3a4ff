package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkoutMusicShapes(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"array", []map[string]any{{"id": 4, "title": "Running Rhythm", "artist": "Cardio Crew", "duration": "4:20"}}},
		{"wrapped", map[string]any{"tracks": []map[string]any{{"id": 4, "title": "Running Rhythm", "artist": "Cardio Crew", "duration": "4:20"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("genre"); got != "Strength Training" {
					t.Errorf("genre = %q", got)
				}
				writeJSON(w, tt.body)
			}))
			defer srv.Close()

			tracks, err := NewContentService(NewClient(srv.URL, time.Second)).WorkoutMusic(context.Background(), "Strength Training")
			if err != nil {
				t.Fatalf("WorkoutMusic: %v", err)
			}
			if len(tracks) != 1 || tracks[0].ID != 4 || tracks[0].Title != "Running Rhythm" {
				t.Fatalf("tracks = %+v", tracks)
			}
		})
	}
}

func TestDietPlanPassesGoals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("goals"); got != "lose weight" {
			t.Errorf("goals = %q", got)
		}
		writeJSON(w, map[string]any{"calories": 1800})
	}))
	defer srv.Close()

	plan, err := NewContentService(NewClient(srv.URL, time.Second)).DietPlan(context.Background(), "lose weight")
	if err != nil {
		t.Fatalf("DietPlan: %v", err)
	}
	if string(plan) != "{\"calories\":1800}\n" && string(plan) != "{\"calories\":1800}" {
		t.Fatalf("plan = %s", plan)
	}
}

func TestCachedContentSharesAndCaches(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		writeJSON(w, map[string]string{"quote": "onward"})
	}))
	defer srv.Close()

	cc := NewCachedContent(NewContentService(NewClient(srv.URL, time.Second)), 8, time.Minute)

	var wg sync.WaitGroup
	results := make([]string, 5)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q, err := cc.DailyQuote(context.Background())
			if err != nil {
				t.Errorf("DailyQuote: %v", err)
			}
			results[i] = q
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if _, err := cc.DailyQuote(context.Background()); err != nil {
		t.Fatalf("cached DailyQuote: %v", err)
	}
	for i, q := range results {
		if q != "onward" {
			t.Fatalf("results[%d] = %q", i, q)
		}
	}
	if n := calls.Load(); n > 5 || n < 1 {
		t.Fatalf("calls = %d", n)
	}
	before := calls.Load()
	if _, err := cc.DailyQuote(context.Background()); err != nil {
		t.Fatalf("DailyQuote: %v", err)
	}
	if calls.Load() != before {
		t.Fatal("cached quote hit the collaborator")
	}
}

func TestCachedContentDoesNotCacheFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, []map[string]any{{"id": 10, "title": "Peaceful Flow", "artist": "Zen Masters", "duration": "5:20"}})
	}))
	defer srv.Close()

	cc := NewCachedContent(NewContentService(NewClient(srv.URL, time.Second)), 8, time.Minute)
	if _, err := cc.WorkoutMusic(context.Background(), "Yoga"); err == nil {
		t.Fatal("first call should fail")
	}
	tracks, err := cc.WorkoutMusic(context.Background(), " yoga ")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("tracks = %+v", tracks)
	}
	if _, err := cc.WorkoutMusic(context.Background(), "YOGA"); err != nil {
		t.Fatalf("third call: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestCachedContentCallerCancelDoesNotFailOthers(t *testing.T) {
	var calls atomic.Int32
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		entered <- struct{}{}
		<-release
		writeJSON(w, []map[string]any{{"id": 10, "title": "Peaceful Flow", "artist": "Zen Masters", "duration": "5:20"}})
	}))
	defer srv.Close()

	cc := NewCachedContent(NewContentService(NewClient(srv.URL, 5*time.Second)), 8, time.Minute)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := cc.WorkoutMusic(ctxA, "yoga")
		errA <- err
	}()
	<-entered

	type result struct {
		n   int
		err error
	}
	resB := make(chan result, 1)
	go func() {
		tracks, err := cc.WorkoutMusic(context.Background(), "yoga")
		resB <- result{len(tracks), err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller error = %v, want context.Canceled", err)
	}
	close(release)

	b := <-resB
	if b.err != nil || b.n != 1 {
		t.Fatalf("live caller = %d tracks, %v; want 1 track", b.n, b.err)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}
}
