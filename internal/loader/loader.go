// Package loader runs keyed asynchronous loads and drops results that were
// overtaken by a newer request.
package loader

import (
	"context"
	"log/slog"
	"sync"
)

type Status int

const (
	Idle Status = iota
	Loading
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Loader applies the result of the most recent Load only. Every Load bumps a
// sequence number; a fetch that completes after a newer Load started is
// discarded without touching status or error.
type Loader[K comparable, T any] struct {
	mu     sync.Mutex
	seq    uint64
	key    K
	status Status
	err    string
}

// Load fetches for key and, if no newer Load started in the meantime, hands the
// result to apply while holding the loader's lock. applied reports whether the
// result was used; a stale result returns (false, nil) even if fetch failed.
func (l *Loader[K, T]) Load(ctx context.Context, key K, fetch func(context.Context, K) (T, error), apply func(T)) (bool, error) {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.key = key
	l.status = Loading
	l.err = ""
	l.mu.Unlock()

	v, err := fetch(ctx, key)

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq != l.seq {
		slog.DebugContext(ctx, "Dropping stale load result", "key", key, "seq", seq, "current", l.seq)
		return false, nil
	}
	if err != nil {
		l.status = Failed
		l.err = err.Error()
		return false, err
	}
	l.status = Ready
	if apply != nil {
		apply(v)
	}
	return true, nil
}

// Status reports the state of the latest load.
func (l *Loader[K, T]) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// Err returns the message of the latest failed load, empty otherwise.
func (l *Loader[K, T]) Err() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Key returns the key of the latest load.
func (l *Loader[K, T]) Key() K {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.key
}

// IsStale reports whether err is nil and the load was dropped. Convenience
// for callers that only have the Load return values.
func IsStale(applied bool, err error) bool {
	return !applied && err == nil
}
