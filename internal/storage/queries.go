package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const mealColumns = `seq, id, meal_type, food_item, calories, protein, carbs, fats, date, created_at, version, sync_status`

const createMeal = `INSERT INTO meals (id, meal_type, food_item, calories, protein, carbs, fats, date, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

type CreateMealParams struct {
	ID        string
	MealType  string
	FoodItem  string
	Calories  float64
	Protein   float64
	Carbs     float64
	Fats      float64
	Date      string
	CreatedAt string
}

func (q *Queries) CreateMeal(ctx context.Context, arg CreateMealParams) error {
	_, err := q.db.ExecContext(ctx, createMeal,
		arg.ID, arg.MealType, arg.FoodItem, arg.Calories, arg.Protein, arg.Carbs, arg.Fats, arg.Date, arg.CreatedAt)
	return err
}

const getMeal = `SELECT ` + mealColumns + ` FROM meals WHERE id = ?`

func (q *Queries) GetMeal(ctx context.Context, id string) (Meal, error) {
	return scanMeal(q.db.QueryRowContext(ctx, getMeal, id))
}

const listMeals = `SELECT ` + mealColumns + ` FROM meals ORDER BY seq`

func (q *Queries) ListMeals(ctx context.Context) ([]Meal, error) {
	rows, err := q.db.QueryContext(ctx, listMeals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const deleteMeal = `DELETE FROM meals WHERE id = ?`

func (q *Queries) DeleteMeal(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteMeal, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const txColumns = `seq, id, type, category, amount, description, date, created_at, version, sync_status`

const createTransaction = `INSERT INTO transactions (id, type, category, amount, description, date, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

type CreateTransactionParams struct {
	ID          string
	Type        string
	Category    string
	Amount      string
	Description string
	Date        string
	CreatedAt   string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) error {
	_, err := q.db.ExecContext(ctx, createTransaction,
		arg.ID, arg.Type, arg.Category, arg.Amount, arg.Description, arg.Date, arg.CreatedAt)
	return err
}

const getTransaction = `SELECT ` + txColumns + ` FROM transactions WHERE id = ?`

func (q *Queries) GetTransaction(ctx context.Context, id string) (Transaction, error) {
	return scanTransaction(q.db.QueryRowContext(ctx, getTransaction, id))
}

const listTransactions = `SELECT ` + txColumns + ` FROM transactions ORDER BY seq`

func (q *Queries) ListTransactions(ctx context.Context) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const completeLesson = `INSERT OR IGNORE INTO lesson_completions (module_id, lesson_id, completed_at) VALUES (?, ?, ?)`

type CompleteLessonParams struct {
	ModuleID    int64
	LessonID    int64
	CompletedAt string
}

func (q *Queries) CompleteLesson(ctx context.Context, arg CompleteLessonParams) error {
	_, err := q.db.ExecContext(ctx, completeLesson, arg.ModuleID, arg.LessonID, arg.CompletedAt)
	return err
}

const listCompletions = `SELECT module_id, lesson_id, completed_at FROM lesson_completions ORDER BY completed_at, module_id, lesson_id`

func (q *Queries) ListCompletions(ctx context.Context) ([]LessonCompletion, error) {
	rows, err := q.db.QueryContext(ctx, listCompletions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LessonCompletion
	for rows.Next() {
		var c LessonCompletion
		if err := rows.Scan(&c.ModuleID, &c.LessonID, &c.CompletedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const getPendingMeals = `SELECT id, version, created_at FROM meals WHERE sync_status = 'pending' ORDER BY seq LIMIT ?`

func (q *Queries) GetPendingMeals(ctx context.Context, limit int64) ([]PendingRow, error) {
	return q.pending(ctx, getPendingMeals, limit)
}

const getPendingTransactions = `SELECT id, version, created_at FROM transactions WHERE sync_status = 'pending' ORDER BY seq LIMIT ?`

func (q *Queries) GetPendingTransactions(ctx context.Context, limit int64) ([]PendingRow, error) {
	return q.pending(ctx, getPendingTransactions, limit)
}

func (q *Queries) pending(ctx context.Context, query string, limit int64) ([]PendingRow, error) {
	rows, err := q.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PendingRow
	for rows.Next() {
		var p PendingRow
		if err := rows.Scan(&p.ID, &p.Version, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const setMealSyncStatus = `UPDATE meals SET sync_status = ? WHERE id = ?`

func (q *Queries) SetMealSyncStatus(ctx context.Context, id, status string) error {
	_, err := q.db.ExecContext(ctx, setMealSyncStatus, status, id)
	return err
}

const setTransactionSyncStatus = `UPDATE transactions SET sync_status = ? WHERE id = ?`

func (q *Queries) SetTransactionSyncStatus(ctx context.Context, id, status string) error {
	_, err := q.db.ExecContext(ctx, setTransactionSyncStatus, status, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMeal(r rowScanner) (Meal, error) {
	var m Meal
	err := r.Scan(&m.Seq, &m.ID, &m.MealType, &m.FoodItem, &m.Calories, &m.Protein, &m.Carbs, &m.Fats,
		&m.Date, &m.CreatedAt, &m.Version, &m.SyncStatus)
	return m, err
}

func scanTransaction(r rowScanner) (Transaction, error) {
	var t Transaction
	err := r.Scan(&t.Seq, &t.ID, &t.Type, &t.Category, &t.Amount, &t.Description,
		&t.Date, &t.CreatedAt, &t.Version, &t.SyncStatus)
	return t, err
}
