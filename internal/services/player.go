package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"successpath/internal/loader"
	"successpath/internal/playlist"
)

// MusicSource returns the tracks of a genre. playlist.Catalog and
// api.CachedContent implement it.
type MusicSource interface {
	WorkoutMusic(ctx context.Context, genre string) ([]playlist.Track, error)
}

// PlayerState is the navigator snapshot plus the state of the latest load.
type PlayerState struct {
	playlist.State
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Player drives a playlist.Navigator from a MusicSource. Genre changes may
// overlap; only the most recent one is ever applied.
type Player struct {
	mu      sync.Mutex
	nav     *playlist.Navigator
	loads   loader.Loader[string, []playlist.Track]
	source  MusicSource
	onStale func()
}

func NewPlayer(source MusicSource) *Player {
	return &Player{nav: playlist.NewNavigator(), source: source}
}

// OnStale registers a callback for dropped loads.
func (p *Player) OnStale(fn func()) {
	p.onStale = fn
}

// SetGenre loads genre and applies it unless a newer SetGenre started first.
// applied is false for a dropped result.
func (p *Player) SetGenre(ctx context.Context, genre string) (bool, error) {
	applied, err := p.loads.Load(ctx, genre, p.source.WorkoutMusic, func(tracks []playlist.Track) {
		p.mu.Lock()
		p.nav.Load(genreName(genre, tracks), tracks)
		p.mu.Unlock()
	})
	if err != nil {
		slog.WarnContext(ctx, "Failed to load workout music", "genre", genre, "error", err)
		return false, err
	}
	if loader.IsStale(applied, err) && p.onStale != nil {
		p.onStale()
	}
	return applied, nil
}

// genreName prefers the spelling the source put on its tracks over the
// requested one, which may differ in case or spacing.
func genreName(requested string, tracks []playlist.Track) string {
	if len(tracks) > 0 && tracks[0].Genre != "" {
		return tracks[0].Genre
	}
	return strings.TrimSpace(requested)
}

func (p *Player) PlayPause() PlayerState {
	return p.mutate(func(n *playlist.Navigator) { n.PlayPause() })
}

func (p *Player) Next() PlayerState {
	return p.mutate(func(n *playlist.Navigator) { n.Next() })
}

func (p *Player) Previous() PlayerState {
	return p.mutate(func(n *playlist.Navigator) { n.Previous() })
}

// SelectTrack reports false for ids outside the loaded list.
func (p *Player) SelectTrack(id int) (PlayerState, bool) {
	var ok bool
	st := p.mutate(func(n *playlist.Navigator) { ok = n.SelectTrack(id) })
	return st, ok
}

func (p *Player) State() PlayerState {
	return p.mutate(func(*playlist.Navigator) {})
}

// mutate reads the loader before taking p.mu; Load's apply callback holds the
// loader lock while acquiring p.mu.
func (p *Player) mutate(fn func(*playlist.Navigator)) PlayerState {
	status, msg := p.loads.Status(), p.loads.Err()
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.nav)
	return PlayerState{State: p.nav.State(), Status: status.String(), Error: msg}
}
