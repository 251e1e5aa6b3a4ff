package api

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"successpath/internal/cache"
	"successpath/internal/playlist"
)

const quoteKey = "quote"

// CachedContent serves quote and music lookups from an LRU cache. Concurrent
// misses for the same key share one collaborator call. Failures are not cached.
type CachedContent struct {
	content *ContentService
	quotes  *cache.LRUCache[string]
	music   *cache.LRUCache[[]playlist.Track]
	group   singleflight.Group
}

func NewCachedContent(content *ContentService, size int, ttl time.Duration) *CachedContent {
	return &CachedContent{
		content: content,
		quotes:  cache.NewLRUCache[string](1, ttl),
		music:   cache.NewLRUCache[[]playlist.Track](size, ttl),
	}
}

// Caches exposes the underlying caches for a janitor.
func (c *CachedContent) Caches() []cache.Cleaner {
	return []cache.Cleaner{c.quotes, c.music}
}

func (c *CachedContent) DailyQuote(ctx context.Context) (string, error) {
	if q, ok := c.quotes.Get(quoteKey); ok {
		return q, nil
	}
	v, err := c.shared(ctx, quoteKey, func(ctx context.Context) (any, error) {
		q, err := c.content.DailyQuote(ctx)
		if err != nil {
			return "", err
		}
		c.quotes.Set(quoteKey, q)
		return q, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *CachedContent) WorkoutMusic(ctx context.Context, genre string) ([]playlist.Track, error) {
	key := "music:" + strings.ToLower(strings.TrimSpace(genre))
	if tracks, ok := c.music.Get(key); ok {
		return append([]playlist.Track(nil), tracks...), nil
	}
	v, err := c.shared(ctx, key, func(ctx context.Context) (any, error) {
		tracks, err := c.content.WorkoutMusic(ctx, genre)
		if err != nil {
			return nil, err
		}
		c.music.Set(key, tracks)
		return tracks, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]playlist.Track(nil), v.([]playlist.Track)...), nil
}

// shared runs fn once per key for all concurrent callers. fn gets a context
// detached from any single caller, so one caller giving up does not fail the
// others; each caller still returns early when its own ctx ends.
func (c *CachedContent) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) { return fn(detached) })
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *CachedContent) DietPlan(ctx context.Context, goals string) (DietPlan, error) {
	return c.content.DietPlan(ctx, goals)
}
