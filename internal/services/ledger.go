// Package services owns the trackers and coordinates persistence, sync events
// and collaborator-backed views around them.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"successpath/internal/amqp"
	"successpath/internal/core"
	"successpath/internal/finance"
	"successpath/internal/learning"
	"successpath/internal/nutrition"
)

// Store persists ledger records. storage.SQLiteRepository and
// storage.MemoryStore implement it.
type Store interface {
	SaveMeal(ctx context.Context, e nutrition.MealEntry) error
	DeleteMeal(ctx context.Context, id string) (bool, error)
	Meals(ctx context.Context) ([]nutrition.MealEntry, error)
	SaveTransaction(ctx context.Context, t finance.Transaction) error
	Transactions(ctx context.Context) ([]finance.Transaction, error)
	SaveCompletion(ctx context.Context, c learning.Completion) error
	Completions(ctx context.Context) ([]learning.Completion, error)
}

// Publisher announces a persisted record to the sync worker.
type Publisher interface {
	PublishSync(ctx context.Context, kind, id string, version int64) error
}

type LedgerOption func(*Ledger)

// WithPublisher enables sync events. Without one, records are only persisted
// and the worker picks them up on its pending sweep.
func WithPublisher(p Publisher) LedgerOption {
	return func(l *Ledger) { l.publisher = p }
}

// WithOperationObserver is told about every successful mutation.
func WithOperationObserver(fn func(tracker, op string)) LedgerOption {
	return func(l *Ledger) { l.observe = fn }
}

func WithTrackers(m *nutrition.Tracker, f *finance.Tracker) LedgerOption {
	return func(l *Ledger) {
		l.meals = m
		l.finance = f
	}
}

// Ledger serializes access to the nutrition, finance and learning trackers.
// Writes are persisted before they become visible.
type Ledger struct {
	mu        sync.Mutex
	meals     *nutrition.Tracker
	finance   *finance.Tracker
	learning  *learning.Tracker
	store     Store
	publisher Publisher
	observe   func(tracker, op string)
}

func NewLedger(store Store, modules []learning.Module, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		meals:    nutrition.NewTracker(),
		finance:  finance.NewTracker(),
		learning: learning.NewTracker(modules),
		store:    store,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load hydrates the trackers from the store. Call once before serving.
func (l *Ledger) Load(ctx context.Context) error {
	meals, err := l.store.Meals(ctx)
	if err != nil {
		return fmt.Errorf("load meals: %w", err)
	}
	txs, err := l.store.Transactions(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	done, err := l.store.Completions(ctx)
	if err != nil {
		return fmt.Errorf("load completions: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.meals.Restore(meals)
	l.finance.Restore(txs)
	l.learning.Restore(done)

	slog.InfoContext(ctx, "Ledger hydrated",
		"meals", len(meals), "transactions", len(txs), "completions", len(done))
	return nil
}

func (l *Ledger) AddMeal(ctx context.Context, in nutrition.MealInput) (nutrition.MealEntry, error) {
	l.mu.Lock()
	e := l.meals.AddMeal(in)
	if err := l.store.SaveMeal(ctx, e); err != nil {
		l.meals.DeleteMeal(e.ID)
		l.mu.Unlock()
		return nutrition.MealEntry{}, fmt.Errorf("save meal: %w", err)
	}
	l.mu.Unlock()

	l.record("nutrition", "add_meal")
	l.publish(ctx, amqp.KindMeal, e.ID)
	return e, nil
}

// DeleteMeal reports whether a meal was removed. Unknown ids are not errors.
func (l *Ledger) DeleteMeal(ctx context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	stored, err := l.store.DeleteMeal(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete meal: %w", err)
	}
	removed := l.meals.DeleteMeal(id)
	if stored || removed {
		l.record("nutrition", "delete_meal")
	}
	return stored || removed, nil
}

func (l *Ledger) ListMeals(date core.Date, mealType *nutrition.MealType) []nutrition.MealEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.meals.ListMeals(date, mealType)
}

func (l *Ledger) DailyMacros(date core.Date) nutrition.DailySummary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.meals.DailyMacros(date)
}

func (l *Ledger) AddTransaction(ctx context.Context, in finance.TransactionInput) (finance.Transaction, error) {
	l.mu.Lock()
	tx := l.finance.AddTransaction(in)
	if err := l.store.SaveTransaction(ctx, tx); err != nil {
		l.finance.Remove(tx.ID)
		l.mu.Unlock()
		return finance.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	l.mu.Unlock()

	l.record("finance", "add_transaction")
	l.publish(ctx, amqp.KindTransaction, tx.ID)
	return tx, nil
}

func (l *Ledger) Transactions() []finance.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.finance.ListRecent()
}

func (l *Ledger) Totals() finance.Totals {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.finance.Totals()
}

func (l *Ledger) TotalsSince(since core.Date) finance.Totals {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.finance.TotalsSince(since)
}

func (l *Ledger) Monthly(since core.Date) []finance.MonthTotals {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.finance.Monthly(since)
}

func (l *Ledger) ByCategory() []finance.CategoryTotal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.finance.ByCategory()
}

func (l *Ledger) Modules() []learning.Module {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.learning.Modules()
}

func (l *Ledger) Module(id int) (learning.Module, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.learning.Module(id)
}

// CompleteLesson persists and applies a completion. changed is false for
// unknown ids and for lessons that were already complete.
func (l *Ledger) CompleteLesson(ctx context.Context, moduleID, lessonID int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.learning.Module(moduleID)
	if !ok {
		return false, nil
	}
	lesson, ok := m.Lesson(lessonID)
	if !ok || lesson.Completed {
		return false, nil
	}
	if err := l.store.SaveCompletion(ctx, learning.Completion{ModuleID: moduleID, LessonID: lessonID}); err != nil {
		return false, fmt.Errorf("save completion: %w", err)
	}
	l.learning.CompleteLesson(moduleID, lessonID)
	l.record("learning", "complete_lesson")
	return true, nil
}

func (l *Ledger) record(tracker, op string) {
	if l.observe != nil {
		l.observe(tracker, op)
	}
}

// publish never fails the caller: the record is already stored and the
// worker's pending sweep will export it.
func (l *Ledger) publish(ctx context.Context, kind, id string) {
	if l.publisher == nil {
		slog.DebugContext(ctx, "No publisher configured, skipping sync message", "kind", kind, "id", id)
		return
	}
	if err := l.publisher.PublishSync(ctx, kind, id, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "kind", kind, "id", id, "error", err)
	}
}
