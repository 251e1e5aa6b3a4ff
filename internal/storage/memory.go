package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"successpath/internal/finance"
	"successpath/internal/learning"
	"successpath/internal/nutrition"
)

// MemoryStore keeps records in process memory. It behaves like
// SQLiteRepository, including sync status, and is used by the memory backend.
type MemoryStore struct {
	mu          sync.Mutex
	meals       []memRecord[nutrition.MealEntry]
	txs         []memRecord[finance.Transaction]
	completions []learning.Completion
	now         func() time.Time
}

type memRecord[T any] struct {
	id      string
	value   T
	created time.Time
	status  string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) Close() error               { return nil }
func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) SaveMeal(_ context.Context, e nutrition.MealEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if indexOf(m.meals, e.ID) >= 0 {
		return fmt.Errorf("create meal: duplicate id %s", e.ID)
	}
	m.meals = append(m.meals, memRecord[nutrition.MealEntry]{id: e.ID, value: e, created: m.now(), status: syncPending})
	return nil
}

func (m *MemoryStore) DeleteMeal(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ok bool
	m.meals, ok = without(m.meals, id)
	return ok, nil
}

func (m *MemoryStore) Meal(_ context.Context, id string) (nutrition.MealEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := indexOf(m.meals, id); i >= 0 {
		return m.meals[i].value, nil
	}
	return nutrition.MealEntry{}, fmt.Errorf("meal %s: %w", id, ErrNotFound)
}

func (m *MemoryStore) Meals(context.Context) ([]nutrition.MealEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return values(m.meals), nil
}

func (m *MemoryStore) SaveTransaction(_ context.Context, t finance.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if indexOf(m.txs, t.ID) >= 0 {
		return fmt.Errorf("create transaction: duplicate id %s", t.ID)
	}
	m.txs = append(m.txs, memRecord[finance.Transaction]{id: t.ID, value: t, created: m.now(), status: syncPending})
	return nil
}

func (m *MemoryStore) DeleteTransaction(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ok bool
	m.txs, ok = without(m.txs, id)
	return ok, nil
}

func (m *MemoryStore) Transaction(_ context.Context, id string) (finance.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := indexOf(m.txs, id); i >= 0 {
		return m.txs[i].value, nil
	}
	return finance.Transaction{}, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
}

func (m *MemoryStore) Transactions(context.Context) ([]finance.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return values(m.txs), nil
}

func (m *MemoryStore) SaveCompletion(_ context.Context, c learning.Completion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, have := range m.completions {
		if have == c {
			return nil
		}
	}
	m.completions = append(m.completions, c)
	return nil
}

func (m *MemoryStore) Completions(context.Context) ([]learning.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]learning.Completion(nil), m.completions...), nil
}

func (m *MemoryStore) Pending(_ context.Context, limit int) ([]Pending, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Pending
	for _, r := range m.meals {
		if r.status == syncPending {
			out = append(out, Pending{Kind: KindMeal, ID: r.id, Version: 1, CreatedAt: r.created})
		}
	}
	for _, r := range m.txs {
		if r.status == syncPending {
			out = append(out, Pending{Kind: KindTransaction, ID: r.id, Version: 1, CreatedAt: r.created})
		}
	}
	return oldestFirst(out, limit), nil
}

func (m *MemoryStore) MarkSynced(_ context.Context, kind Kind, id string) error {
	return m.setStatus(kind, id, syncDone)
}

func (m *MemoryStore) MarkSyncError(_ context.Context, kind Kind, id string) error {
	return m.setStatus(kind, id, syncError)
}

func (m *MemoryStore) setStatus(kind Kind, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch kind {
	case KindMeal:
		if i := indexOf(m.meals, id); i >= 0 {
			m.meals[i].status = status
		}
	case KindTransaction:
		if i := indexOf(m.txs, id); i >= 0 {
			m.txs[i].status = status
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return nil
}

func indexOf[T any](recs []memRecord[T], id string) int {
	for i, r := range recs {
		if r.id == id {
			return i
		}
	}
	return -1
}

func without[T any](recs []memRecord[T], id string) ([]memRecord[T], bool) {
	i := indexOf(recs, id)
	if i < 0 {
		return recs, false
	}
	return append(recs[:i:i], recs[i+1:]...), true
}

func values[T any](recs []memRecord[T]) []T {
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.value)
	}
	return out
}
