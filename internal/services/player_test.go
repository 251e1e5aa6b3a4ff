package services

import (
	"context"
	"errors"
	"testing"

	"successpath/internal/playlist"
)

// gatedSource blocks each genre until its gate is released.
type gatedSource struct {
	gates   map[string]chan struct{}
	tracks  map[string][]playlist.Track
	errs    map[string]error
	entered chan string
}

func (s *gatedSource) WorkoutMusic(ctx context.Context, genre string) ([]playlist.Track, error) {
	if s.entered != nil {
		s.entered <- genre
	}
	if g, ok := s.gates[genre]; ok {
		<-g
	}
	if err := s.errs[genre]; err != nil {
		return nil, err
	}
	return s.tracks[genre], nil
}

func TestPlayerDropsStaleGenre(t *testing.T) {
	src := &gatedSource{
		gates: map[string]chan struct{}{"Yoga": make(chan struct{})},
		tracks: map[string][]playlist.Track{
			"Yoga":   {{ID: 10, Title: "Peaceful Flow"}},
			"Cardio": {{ID: 4, Title: "Running Rhythm"}, {ID: 5, Title: "Endurance Mix"}},
		},
		entered: make(chan string, 2),
	}
	p := NewPlayer(src)
	stale := 0
	p.OnStale(func() { stale++ })

	type result struct {
		applied bool
		err     error
	}
	slow := make(chan result, 1)
	go func() {
		applied, err := p.SetGenre(context.Background(), "Yoga")
		slow <- result{applied, err}
	}()
	if g := <-src.entered; g != "Yoga" {
		t.Fatalf("first fetch = %q", g)
	}

	applied, err := p.SetGenre(context.Background(), "Cardio")
	if err != nil || !applied {
		t.Fatalf("SetGenre(Cardio) = %v, %v", applied, err)
	}
	close(src.gates["Yoga"])
	r := <-slow
	if r.err != nil || r.applied {
		t.Fatalf("SetGenre(Yoga) = %v, %v; want dropped", r.applied, r.err)
	}
	if stale != 1 {
		t.Fatalf("stale = %d, want 1", stale)
	}

	st := p.State()
	if st.Genre != "Cardio" || len(st.Tracks) != 2 || st.Status != "ready" {
		t.Fatalf("state = %+v", st)
	}
	if st.CurrentTrackID == nil || *st.CurrentTrackID != 4 {
		t.Fatalf("current = %v, want 4", st.CurrentTrackID)
	}
}

func TestPlayerControls(t *testing.T) {
	p := NewPlayer(playlist.DefaultCatalog())
	if _, err := p.SetGenre(context.Background(), " cardio "); err != nil {
		t.Fatalf("SetGenre: %v", err)
	}
	if st := p.State(); st.Genre != "Cardio" {
		t.Fatalf("Genre = %q, want catalog spelling Cardio", st.Genre)
	}

	if st := p.PlayPause(); !st.IsPlaying {
		t.Fatal("PlayPause should start playback")
	}
	if st := p.Previous(); *st.CurrentTrackID != 6 {
		t.Fatalf("Previous from first = %d, want 6", *st.CurrentTrackID)
	}
	if st := p.Next(); *st.CurrentTrackID != 4 {
		t.Fatalf("Next from last = %d, want 4", *st.CurrentTrackID)
	}
	if _, ok := p.SelectTrack(99); ok {
		t.Fatal("SelectTrack(99) should fail")
	}
	st, ok := p.SelectTrack(5)
	if !ok || *st.CurrentTrackID != 5 || !st.IsPlaying {
		t.Fatalf("SelectTrack(5) = %+v, %v", st, ok)
	}
}

func TestPlayerLoadFailureKeepsTracks(t *testing.T) {
	boom := errors.New("content down")
	src := &gatedSource{
		tracks: map[string][]playlist.Track{"Yoga": {{ID: 10}}},
		errs:   map[string]error{"Cardio": boom},
	}
	p := NewPlayer(src)
	if _, err := p.SetGenre(context.Background(), "Yoga"); err != nil {
		t.Fatalf("SetGenre(Yoga): %v", err)
	}
	if _, err := p.SetGenre(context.Background(), "Cardio"); !errors.Is(err, boom) {
		t.Fatalf("SetGenre(Cardio) err = %v", err)
	}
	st := p.State()
	if st.Genre != "Yoga" || st.Status != "failed" || st.Error != boom.Error() {
		t.Fatalf("state = %+v", st)
	}
}
