// Package nutrition tracks meal entries and derives daily macro summaries.
package nutrition

import (
	"strings"

	"successpath/internal/core"
)

// Atwater factors, kilocalories per gram.
const (
	ProteinKcalPerGram = 4
	CarbKcalPerGram    = 4
	FatKcalPerGram     = 9
)

const (
	Breakfast MealType = "Breakfast"
	Lunch     MealType = "Lunch"
	Dinner    MealType = "Dinner"
	Snack     MealType = "Snack"
)

type (
	MealType string

	// MealEntry is an immutable record of one food item eaten on a day.
	MealEntry struct {
		ID       string    `json:"id"`
		MealType MealType  `json:"meal_type"`
		FoodItem string    `json:"food_item"`
		Calories float64   `json:"calories"`
		Protein  float64   `json:"protein"`
		Carbs    float64   `json:"carbs"`
		Fats     float64   `json:"fats"`
		Date     core.Date `json:"date"`
	}

	// MealInput is the raw form submission. Numeric fields are strings and are
	// normalized with core.ParseQuantity.
	MealInput struct {
		MealType string `json:"meal_type"`
		FoodItem string `json:"food_item"`
		Calories string `json:"calories"`
		Protein  string `json:"protein"`
		Carbs    string `json:"carbs"`
		Fats     string `json:"fats"`
		Date     string `json:"date"`
	}

	Macros struct {
		Calories float64 `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fats     float64 `json:"fats"`
	}

	// Breakdown is the calorie contribution of each macro, for charting.
	Breakdown struct {
		ProteinCalories float64 `json:"protein_calories"`
		CarbCalories    float64 `json:"carb_calories"`
		FatCalories     float64 `json:"fat_calories"`
	}

	DailySummary struct {
		Date      core.Date `json:"date"`
		Macros    Macros    `json:"macros"`
		Breakdown Breakdown `json:"breakdown"`
	}
)

// MealTypes lists the meal types in display order.
func MealTypes() []MealType {
	return []MealType{Breakfast, Lunch, Dinner, Snack}
}

// ParseMealType matches s case-insensitively against the known meal types.
func ParseMealType(s string) (MealType, bool) {
	s = strings.TrimSpace(s)
	for _, mt := range MealTypes() {
		if strings.EqualFold(s, string(mt)) {
			return mt, true
		}
	}
	return "", false
}

// BreakdownOf converts macro grams into calories using the Atwater factors.
func BreakdownOf(m Macros) Breakdown {
	return Breakdown{
		ProteinCalories: m.Protein * ProteinKcalPerGram,
		CarbCalories:    m.Carbs * CarbKcalPerGram,
		FatCalories:     m.Fats * FatKcalPerGram,
	}
}

// Normalize turns a raw submission into an entry without an ID. Unknown meal
// types fall back to Snack and a missing date falls back to today.
func (in MealInput) Normalize(today core.Date) MealEntry {
	mt, ok := ParseMealType(in.MealType)
	if !ok {
		mt = Snack
	}
	return MealEntry{
		MealType: mt,
		FoodItem: strings.TrimSpace(in.FoodItem),
		Calories: core.ParseQuantity(in.Calories),
		Protein:  core.ParseQuantity(in.Protein),
		Carbs:    core.ParseQuantity(in.Carbs),
		Fats:     core.ParseQuantity(in.Fats),
		Date:     core.ParseDateOr(in.Date, today),
	}
}
