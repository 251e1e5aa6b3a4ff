package finance

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"successpath/internal/core"
)

// Tracker owns the transaction ledger. It keeps no running totals: every
// summary is folded from the records on demand.
type Tracker struct {
	txs   []Transaction
	newID func() string
	today func() core.Date
}

type Option func(*Tracker)

func WithIDGenerator(fn func() string) Option {
	return func(t *Tracker) { t.newID = fn }
}

func WithClock(fn func() core.Date) Option {
	return func(t *Tracker) { t.today = fn }
}

func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		newID: func() string {
			id, err := uuid.NewV7()
			if err != nil {
				return uuid.NewString()
			}
			return id.String()
		},
		today: core.Today,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// AddTransaction normalizes the input, assigns an ID and appends it.
func (t *Tracker) AddTransaction(in TransactionInput) Transaction {
	tx := in.Normalize(t.today())
	tx.ID = t.newID()
	t.txs = append(t.txs, tx)
	return tx
}

// Restore appends already persisted transactions, keeping their IDs.
func (t *Tracker) Restore(txs []Transaction) {
	for _, tx := range txs {
		tx.Amount = tx.Amount.Abs()
		t.txs = append(t.txs, tx)
	}
}

// Remove drops the transaction with id. It only exists to undo an append
// whose persistence failed.
func (t *Tracker) Remove(id string) bool {
	for i, tx := range t.txs {
		if tx.ID == id {
			t.txs = append(t.txs[:i:i], t.txs[i+1:]...)
			return true
		}
	}
	return false
}

// ListRecent returns every transaction in insertion order.
func (t *Tracker) ListRecent() []Transaction {
	return append(make([]Transaction, 0, len(t.txs)), t.txs...)
}

// Get returns the transaction with id.
func (t *Tracker) Get(id string) (Transaction, bool) {
	for _, tx := range t.txs {
		if tx.ID == id {
			return tx, true
		}
	}
	return Transaction{}, false
}

// Totals folds the full ledger into income, expenses and balance.
func (t *Tracker) Totals() Totals {
	return SumTotals(t.txs)
}

// TotalsSince folds the transactions dated on or after since.
func (t *Tracker) TotalsSince(since core.Date) Totals {
	return SumTotals(core.Where(t.txs, func(tx Transaction) bool {
		return !tx.Date.Before(since.Time)
	}))
}

// Monthly groups transactions dated on or after since by YYYY-MM, oldest first.
func (t *Tracker) Monthly(since core.Date) []MonthTotals {
	buckets := map[string][]Transaction{}
	for _, tx := range t.txs {
		if tx.Date.Before(since.Time) {
			continue
		}
		key := tx.Date.MonthKey()
		buckets[key] = append(buckets[key], tx)
	}
	out := make([]MonthTotals, 0, len(buckets))
	for month, txs := range buckets {
		tot := SumTotals(txs)
		out = append(out, MonthTotals{Month: month, Income: tot.Income, Expenses: tot.Expenses})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// ByCategory sums expenses per category, in category display order. Categories
// without expenses are omitted.
func (t *Tracker) ByCategory() []CategoryTotal {
	fields := make([]core.Field[Transaction, decimal.Decimal], 0, len(Categories()))
	for _, c := range Categories() {
		fields = append(fields, decimalSum(string(c), func(tx Transaction) decimal.Decimal {
			if tx.Type != Expense || tx.Category != c {
				return decimal.Zero
			}
			return tx.Amount
		}))
	}
	s := core.Aggregate(t.txs, decimal.Zero, fields...)
	out := []CategoryTotal{}
	for _, c := range Categories() {
		if v := s.Get(string(c)); !v.IsZero() {
			out = append(out, CategoryTotal{Category: c, Amount: v})
		}
	}
	return out
}

// SumTotals runs the ledger fold with two accumulators gated by type.
func SumTotals(txs []Transaction) Totals {
	s := core.Aggregate(txs, decimal.Zero,
		decimalSum("income", gated(Income)),
		decimalSum("expenses", gated(Expense)),
	)
	income, expenses := s.Get("income"), s.Get("expenses")
	return Totals{Income: income, Expenses: expenses, Balance: income.Sub(expenses)}
}

func gated(typ Type) func(Transaction) decimal.Decimal {
	return func(tx Transaction) decimal.Decimal {
		if tx.Type != typ {
			return decimal.Zero
		}
		return tx.Amount
	}
}

func decimalSum(name string, sel func(Transaction) decimal.Decimal) core.Field[Transaction, decimal.Decimal] {
	return core.Field[Transaction, decimal.Decimal]{
		Name:    name,
		Select:  sel,
		Combine: func(acc, v decimal.Decimal) decimal.Decimal { return acc.Add(v) },
	}
}
