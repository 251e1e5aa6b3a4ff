// Package storage persists meals, transactions and lesson completions, and
// tracks which records still need exporting.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"successpath/internal/core"
	"successpath/internal/finance"
	"successpath/internal/learning"
	"successpath/internal/nutrition"

	_ "modernc.org/sqlite"
)

// Kind names a synchronised record type.
type Kind string

const (
	KindMeal        Kind = "meal"
	KindTransaction Kind = "transaction"
)

const (
	syncPending = "pending"
	syncDone    = "synced"
	syncError   = "error"
)

// Fixed-width UTC timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

var (
	ErrNotFound    = errors.New("record not found")
	ErrUnknownKind = errors.New("unknown record kind")
)

// Pending identifies a record awaiting export.
type Pending struct {
	Kind      Kind
	ID        string
	Version   int64
	CreatedAt time.Time
}

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY under the HTTP server.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db), now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database answers.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) stamp() string {
	return r.now().UTC().Format(timestampLayout)
}

func (r *SQLiteRepository) SaveMeal(ctx context.Context, e nutrition.MealEntry) error {
	err := r.queries.CreateMeal(ctx, CreateMealParams{
		ID:        e.ID,
		MealType:  string(e.MealType),
		FoodItem:  e.FoodItem,
		Calories:  e.Calories,
		Protein:   e.Protein,
		Carbs:     e.Carbs,
		Fats:      e.Fats,
		Date:      e.Date.String(),
		CreatedAt: r.stamp(),
	})
	if err != nil {
		return fmt.Errorf("create meal: %w", err)
	}
	slog.DebugContext(ctx, "Meal saved to SQLite", "id", e.ID, "meal_type", e.MealType, "date", e.Date)
	return nil
}

func (r *SQLiteRepository) DeleteMeal(ctx context.Context, id string) (bool, error) {
	n, err := r.queries.DeleteMeal(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete meal: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) Meal(ctx context.Context, id string) (nutrition.MealEntry, error) {
	row, err := r.queries.GetMeal(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nutrition.MealEntry{}, fmt.Errorf("meal %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nutrition.MealEntry{}, fmt.Errorf("get meal: %w", err)
	}
	return mealFromRow(row)
}

func (r *SQLiteRepository) Meals(ctx context.Context) ([]nutrition.MealEntry, error) {
	rows, err := r.queries.ListMeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	out := make([]nutrition.MealEntry, 0, len(rows))
	for _, row := range rows {
		e, err := mealFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *SQLiteRepository) SaveTransaction(ctx context.Context, t finance.Transaction) error {
	err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		ID:          t.ID,
		Type:        string(t.Type),
		Category:    string(t.Category),
		Amount:      t.Amount.String(),
		Description: t.Description,
		Date:        t.Date.String(),
		CreatedAt:   r.stamp(),
	})
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	slog.DebugContext(ctx, "Transaction saved to SQLite", "id", t.ID, "type", t.Type, "amount", t.Amount.String())
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) (bool, error) {
	n, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) Transaction(ctx context.Context, id string) (finance.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return finance.Transaction{}, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return finance.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return transactionFromRow(row)
}

func (r *SQLiteRepository) Transactions(ctx context.Context) ([]finance.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]finance.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := transactionFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *SQLiteRepository) SaveCompletion(ctx context.Context, c learning.Completion) error {
	err := r.queries.CompleteLesson(ctx, CompleteLessonParams{
		ModuleID:    int64(c.ModuleID),
		LessonID:    int64(c.LessonID),
		CompletedAt: r.stamp(),
	})
	if err != nil {
		return fmt.Errorf("save lesson completion: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Completions(ctx context.Context) ([]learning.Completion, error) {
	rows, err := r.queries.ListCompletions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lesson completions: %w", err)
	}
	out := make([]learning.Completion, 0, len(rows))
	for _, row := range rows {
		out = append(out, learning.Completion{ModuleID: int(row.ModuleID), LessonID: int(row.LessonID)})
	}
	return out, nil
}

// Pending returns up to limit unexported records, oldest first, across kinds.
func (r *SQLiteRepository) Pending(ctx context.Context, limit int) ([]Pending, error) {
	meals, err := r.queries.GetPendingMeals(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending meals: %w", err)
	}
	txs, err := r.queries.GetPendingTransactions(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending transactions: %w", err)
	}

	out := make([]Pending, 0, len(meals)+len(txs))
	for _, p := range meals {
		out = append(out, pendingFromRow(KindMeal, p))
	}
	for _, p := range txs {
		out = append(out, pendingFromRow(KindTransaction, p))
	}
	return oldestFirst(out, limit), nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, kind Kind, id string) error {
	if err := r.setStatus(ctx, kind, id, syncDone); err != nil {
		return fmt.Errorf("mark %s synced: %w", kind, err)
	}
	slog.InfoContext(ctx, "Record marked as synced", "kind", kind, "id", id)
	return nil
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, kind Kind, id string) error {
	if err := r.setStatus(ctx, kind, id, syncError); err != nil {
		return fmt.Errorf("mark %s sync error: %w", kind, err)
	}
	slog.WarnContext(ctx, "Record marked with sync error", "kind", kind, "id", id)
	return nil
}

func (r *SQLiteRepository) setStatus(ctx context.Context, kind Kind, id, status string) error {
	switch kind {
	case KindMeal:
		return r.queries.SetMealSyncStatus(ctx, id, status)
	case KindTransaction:
		return r.queries.SetTransactionSyncStatus(ctx, id, status)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func mealFromRow(row Meal) (nutrition.MealEntry, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return nutrition.MealEntry{}, fmt.Errorf("meal %s: %w", row.ID, err)
	}
	mt, ok := nutrition.ParseMealType(row.MealType)
	if !ok {
		mt = nutrition.Snack
	}
	return nutrition.MealEntry{
		ID:       row.ID,
		MealType: mt,
		FoodItem: row.FoodItem,
		Calories: row.Calories,
		Protein:  row.Protein,
		Carbs:    row.Carbs,
		Fats:     row.Fats,
		Date:     date,
	}, nil
}

func transactionFromRow(row Transaction) (finance.Transaction, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return finance.Transaction{}, fmt.Errorf("transaction %s: %w", row.ID, err)
	}
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return finance.Transaction{}, fmt.Errorf("transaction %s amount: %w", row.ID, err)
	}
	typ, ok := finance.ParseType(row.Type)
	if !ok {
		typ = finance.Expense
	}
	cat, ok := finance.ParseCategory(row.Category)
	if !ok {
		cat = finance.CategoryOther
	}
	return finance.Transaction{
		ID:          row.ID,
		Type:        typ,
		Category:    cat,
		Amount:      amount.Abs(),
		Description: row.Description,
		Date:        date,
	}, nil
}

func pendingFromRow(kind Kind, p PendingRow) Pending {
	created, _ := time.Parse(timestampLayout, p.CreatedAt)
	return Pending{Kind: kind, ID: p.ID, Version: p.Version, CreatedAt: created}
}

func oldestFirst(p []Pending, limit int) []Pending {
	sort.SliceStable(p, func(i, j int) bool { return p[i].CreatedAt.Before(p[j].CreatedAt) })
	if limit >= 0 && len(p) > limit {
		p = p[:limit]
	}
	return p
}
