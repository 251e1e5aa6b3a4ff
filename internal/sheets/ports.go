// Package sheets defines the spreadsheet export ports and the row layout
// shared by every exporter.
package sheets

import (
	"context"
	"strconv"

	"successpath/internal/finance"
	"successpath/internal/nutrition"
)

// Ports for outbound adapters.
type (
	TransactionWriter interface {
		// AppendTransaction writes one row. Appending an ID that is already
		// present returns the existing row reference.
		AppendTransaction(ctx context.Context, t finance.Transaction) (rowRef string, err error)
	}

	MealWriter interface {
		AppendMeal(ctx context.Context, e nutrition.MealEntry) (rowRef string, err error)
	}

	Exporter interface {
		TransactionWriter
		MealWriter
	}
)

var (
	TransactionHeader = []string{"ID", "Date", "Type", "Category", "Description", "Amount"}
	MealHeader        = []string{"ID", "Date", "Meal", "Food", "Calories", "Protein", "Carbs", "Fats"}
)

// TransactionRow lays out t under TransactionHeader. The amount is written
// as its exact decimal string.
func TransactionRow(t finance.Transaction) []any {
	return []any{t.ID, t.Date.String(), string(t.Type), string(t.Category), t.Description, t.Amount.StringFixed(2)}
}

func MealRow(e nutrition.MealEntry) []any {
	return []any{
		e.ID, e.Date.String(), string(e.MealType), e.FoodItem,
		formatFloat(e.Calories), formatFloat(e.Protein), formatFloat(e.Carbs), formatFloat(e.Fats),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
