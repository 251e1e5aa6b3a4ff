package nutrition

import (
	"github.com/google/uuid"

	"successpath/internal/core"
)

// Tracker owns the meal collection. It is not safe for concurrent use; the
// owner serializes access.
type Tracker struct {
	meals []MealEntry
	newID func() string
	today func() core.Date
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithIDGenerator overrides the ID source, mainly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(t *Tracker) { t.newID = fn }
}

// WithClock overrides the day used for submissions without a date.
func WithClock(fn func() core.Date) Option {
	return func(t *Tracker) { t.today = fn }
}

func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		newID: newMealID,
		today: core.Today,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// newMealID returns a time-ordered UUID.
func newMealID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// AddMeal normalizes the input, assigns a fresh ID and appends the entry.
func (t *Tracker) AddMeal(in MealInput) MealEntry {
	e := in.Normalize(t.today())
	e.ID = t.newID()
	t.meals = append(t.meals, e)
	return e
}

// Restore appends already persisted entries, keeping their IDs.
func (t *Tracker) Restore(entries []MealEntry) {
	for _, e := range entries {
		e.Calories = core.Quantity(e.Calories)
		e.Protein = core.Quantity(e.Protein)
		e.Carbs = core.Quantity(e.Carbs)
		e.Fats = core.Quantity(e.Fats)
		t.meals = append(t.meals, e)
	}
}

// ReplaceDay swaps every entry of date for entries, e.g. after a remote load.
func (t *Tracker) ReplaceDay(date core.Date, entries []MealEntry) {
	kept := core.Where(t.meals, func(e MealEntry) bool { return !e.Date.SameDay(date) })
	t.meals = kept
	t.Restore(entries)
}

// ListMeals returns the meals of date in insertion order, optionally narrowed
// to one meal type.
func (t *Tracker) ListMeals(date core.Date, mealType *MealType) []MealEntry {
	return core.Where(t.meals, func(e MealEntry) bool {
		if !e.Date.SameDay(date) {
			return false
		}
		return mealType == nil || e.MealType == *mealType
	})
}

// DeleteMeal removes the entry with id. It reports whether anything was removed;
// an unknown id is not an error.
func (t *Tracker) DeleteMeal(id string) bool {
	for i, e := range t.meals {
		if e.ID == id {
			t.meals = append(t.meals[:i:i], t.meals[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the entry with id.
func (t *Tracker) Get(id string) (MealEntry, bool) {
	for _, e := range t.meals {
		if e.ID == id {
			return e, true
		}
	}
	return MealEntry{}, false
}

// Len returns the number of stored entries across all days.
func (t *Tracker) Len() int {
	return len(t.meals)
}

// DailyMacros sums the macros of every meal on date. The result never depends
// on a meal-type filter.
func (t *Tracker) DailyMacros(date core.Date) DailySummary {
	m := SumMacros(t.ListMeals(date, nil))
	return DailySummary{Date: date, Macros: m, Breakdown: BreakdownOf(m)}
}

// SumMacros runs the ledger fold over entries.
func SumMacros(entries []MealEntry) Macros {
	s := core.Aggregate(entries, 0.0,
		core.FloatSum("calories", func(e MealEntry) float64 { return e.Calories }),
		core.FloatSum("protein", func(e MealEntry) float64 { return e.Protein }),
		core.FloatSum("carbs", func(e MealEntry) float64 { return e.Carbs }),
		core.FloatSum("fats", func(e MealEntry) float64 { return e.Fats }),
	)
	return Macros{
		Calories: s.Get("calories"),
		Protein:  s.Get("protein"),
		Carbs:    s.Get("carbs"),
		Fats:     s.Get("fats"),
	}
}
