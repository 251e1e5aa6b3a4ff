// Package memory is an in-process spreadsheet used when no Google
// spreadsheet is configured, and in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"successpath/internal/finance"
	"successpath/internal/nutrition"
	"successpath/internal/sheets"
)

const (
	TransactionsSheet = "Transactions"
	MealsSheet        = "Meals"
)

var _ sheets.Exporter = (*Store)(nil)

type Store struct {
	mu   sync.Mutex
	rows map[string][][]any
	fail error
}

func New() *Store {
	return &Store{rows: make(map[string][][]any)}
}

// FailWith makes every subsequent append return err; nil restores normal
// behaviour.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

func (s *Store) AppendTransaction(_ context.Context, t finance.Transaction) (string, error) {
	return s.append(TransactionsSheet, t.ID, sheets.TransactionRow(t))
}

func (s *Store) AppendMeal(_ context.Context, e nutrition.MealEntry) (string, error) {
	return s.append(MealsSheet, e.ID, sheets.MealRow(e))
}

func (s *Store) append(sheet, id string, row []any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return "", s.fail
	}
	for i, r := range s.rows[sheet] {
		if r[0] == id {
			return ref(sheet, i), nil
		}
	}
	s.rows[sheet] = append(s.rows[sheet], row)
	return ref(sheet, len(s.rows[sheet])-1), nil
}

// Rows returns a copy of the rows written to sheet.
func (s *Store) Rows(sheet string) [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]any, len(s.rows[sheet]))
	for i, r := range s.rows[sheet] {
		out[i] = append([]any(nil), r...)
	}
	return out
}

// ref numbers rows from 2, below the header row.
func ref(sheet string, i int) string {
	return fmt.Sprintf("mem:%s!%d", sheet, i+2)
}
