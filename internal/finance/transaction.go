// Package finance tracks income and expense transactions and derives totals.
package finance

import (
	"strings"

	"github.com/shopspring/decimal"

	"successpath/internal/core"
)

const (
	Income  Type = "income"
	Expense Type = "expense"
)

const (
	CategoryIncome         Category = "Income"
	CategoryHousing        Category = "Housing"
	CategoryTransportation Category = "Transportation"
	CategoryFood           Category = "Food"
	CategoryUtilities      Category = "Utilities"
	CategoryHealthcare     Category = "Healthcare"
	CategoryEntertainment  Category = "Entertainment"
	CategoryOther          Category = "Other"
)

type (
	Type     string
	Category string

	// Transaction is an append-only ledger record. Amount is always a
	// magnitude; the sign comes from Type.
	Transaction struct {
		ID          string          `json:"id"`
		Type        Type            `json:"type"`
		Category    Category        `json:"category"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
		Date        core.Date       `json:"date"`
	}

	// TransactionInput is the raw form submission.
	TransactionInput struct {
		Type        string `json:"type"`
		Category    string `json:"category"`
		Amount      string `json:"amount"`
		Description string `json:"description"`
		Date        string `json:"date"`
	}

	Totals struct {
		Income   decimal.Decimal `json:"income"`
		Expenses decimal.Decimal `json:"expenses"`
		Balance  decimal.Decimal `json:"balance"`
	}

	MonthTotals struct {
		Month    string          `json:"month"` // YYYY-MM
		Income   decimal.Decimal `json:"income"`
		Expenses decimal.Decimal `json:"expenses"`
	}

	CategoryTotal struct {
		Category Category        `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
	}
)

// Categories lists the known categories in display order.
func Categories() []Category {
	return []Category{
		CategoryIncome, CategoryHousing, CategoryTransportation, CategoryFood,
		CategoryUtilities, CategoryHealthcare, CategoryEntertainment, CategoryOther,
	}
}

// ParseCategory matches s case-insensitively against the known categories.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

// ParseType matches s case-insensitively against income and expense.
func ParseType(s string) (Type, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Income):
		return Income, true
	case string(Expense):
		return Expense, true
	}
	return "", false
}

// Signed returns the amount with the sign implied by the type.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Income {
		return t.Amount
	}
	return t.Amount.Neg()
}

// NonNegative reports whether the balance is on the non-negative branch. A
// balance of exactly zero counts as non-negative.
func (t Totals) NonNegative() bool {
	return !t.Balance.IsNegative()
}

// Normalize turns a raw submission into a transaction without an ID. An
// unknown type falls back to expense and an unknown category to Other.
func (in TransactionInput) Normalize(today core.Date) Transaction {
	typ, ok := ParseType(in.Type)
	if !ok {
		typ = Expense
	}
	cat, ok := ParseCategory(in.Category)
	if !ok {
		cat = CategoryOther
	}
	return Transaction{
		Type:        typ,
		Category:    cat,
		Amount:      core.ParseAmount(in.Amount),
		Description: strings.TrimSpace(in.Description),
		Date:        core.ParseDateOr(in.Date, today),
	}
}
