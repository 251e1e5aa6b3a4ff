package cache

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Fatalf("%s should be cached", k)
		}
	}
	if c.Size() != 2 {
		t.Fatalf("size = %d, want 2", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[int](10, time.Minute).WithClock(clock.now)
	c.Set("quote", 1)
	c.Set("music", 2)

	clock.t = clock.t.Add(30 * time.Second)
	if v, ok := c.Get("quote"); !ok || v != 1 {
		t.Fatalf("fresh entry missing")
	}
	c.Set("music", 3)

	clock.t = clock.t.Add(45 * time.Second)
	if _, ok := c.Get("quote"); ok {
		t.Fatalf("expired entry returned")
	}
	if n := c.CleanExpired(); n != 0 {
		t.Fatalf("cleaned %d, want 0 (music was refreshed)", n)
	}
	clock.t = clock.t.Add(time.Minute)
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("cleaned %d, want 1", n)
	}
}

func TestJanitorStopsWithContext(t *testing.T) {
	c := NewLRUCache[int](1, time.Nanosecond)
	c.Set("k", 1)
	j := NewJanitor(c)

	ctx, cancel := context.WithCancel(context.Background())
	go j.Run(ctx, time.Millisecond)
	cancel()

	select {
	case <-j.Done():
	case <-time.After(time.Second):
		t.Fatalf("janitor did not stop")
	}
	time.Sleep(time.Millisecond)
	if j.Sweep() > 1 {
		t.Fatalf("unexpected sweep count")
	}
}
