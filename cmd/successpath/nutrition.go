package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"successpath/internal/core"
	"successpath/internal/nutrition"
	"successpath/internal/services"
)

// --- add-meal ---

type addMealCmd struct {
	in nutrition.MealInput
}

func (*addMealCmd) Name() string     { return "add-meal" }
func (*addMealCmd) Synopsis() string { return "record a food item eaten on a day" }
func (*addMealCmd) Usage() string {
	return `add-meal -f <food> [-t <meal type>] [-cal <kcal>] [-p <g>] [-c <g>] [-fat <g>] [-d <date>]

  Records one meal entry. Unparseable numbers count as 0 and an unknown meal
  type is recorded as a Snack.
`
}

func (c *addMealCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.in.FoodItem, "f", "", "Food item")
	f.StringVar(&c.in.MealType, "t", string(nutrition.Snack), "Meal type (Breakfast, Lunch, Dinner, Snack)")
	f.StringVar(&c.in.Calories, "cal", "0", "Calories (kcal)")
	f.StringVar(&c.in.Protein, "p", "0", "Protein (g)")
	f.StringVar(&c.in.Carbs, "c", "0", "Carbs (g)")
	f.StringVar(&c.in.Fats, "fat", "0", "Fats (g)")
	f.StringVar(&c.in.Date, "d", "", "Date (YYYY-MM-DD), defaults to today")
}

func (c *addMealCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.in.FoodItem == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if c.in.Date != "" {
		if _, err := core.ParseDate(c.in.Date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	return withLedger(ctx, func(l *services.Ledger) error {
		e, err := l.AddMeal(ctx, c.in)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Recorded %s %q on %s (%s)\n", e.MealType, e.FoodItem, e.Date, e.ID)
		return nil
	})
}

// --- meals ---

type mealsCmd struct {
	date     string
	mealType string
}

func (*mealsCmd) Name() string     { return "meals" }
func (*mealsCmd) Synopsis() string { return "list the meals of a day" }
func (*mealsCmd) Usage() string {
	return `meals [-d <date>] [-t <meal type>]

  Lists the meal entries of a day, optionally restricted to one meal type.
`
}

func (c *mealsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date (YYYY-MM-DD), defaults to today")
	f.StringVar(&c.mealType, "t", "", "Meal type filter")
}

func (c *mealsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := dateFlag(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	var filter *nutrition.MealType
	if c.mealType != "" {
		mt, ok := nutrition.ParseMealType(c.mealType)
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown meal type %q\n", c.mealType)
			return subcommands.ExitUsageError
		}
		filter = &mt
	}
	return withLedger(ctx, func(l *services.Ledger) error {
		w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tFOOD\tKCAL\tPROTEIN\tCARBS\tFATS")
		for _, e := range l.ListMeals(day, filter) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%g\t%g\n",
				e.ID, e.MealType, e.FoodItem, e.Calories, e.Protein, e.Carbs, e.Fats)
		}
		return w.Flush()
	})
}

// --- macros ---

type macrosCmd struct {
	date string
}

func (*macrosCmd) Name() string     { return "macros" }
func (*macrosCmd) Synopsis() string { return "show the macro totals of a day" }
func (*macrosCmd) Usage() string {
	return `macros [-d <date>]

  Prints the day's calorie and macro totals with the calories each macro
  contributes.
`
}

func (c *macrosCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date (YYYY-MM-DD), defaults to today")
}

func (c *macrosCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := dateFlag(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, func(l *services.Ledger) error {
		s := l.DailyMacros(day)
		w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Date\t%s\n", s.Date)
		fmt.Fprintf(w, "Calories\t%g\n", s.Macros.Calories)
		fmt.Fprintf(w, "Protein\t%g g\t%g kcal\n", s.Macros.Protein, s.Breakdown.ProteinCalories)
		fmt.Fprintf(w, "Carbs\t%g g\t%g kcal\n", s.Macros.Carbs, s.Breakdown.CarbCalories)
		fmt.Fprintf(w, "Fats\t%g g\t%g kcal\n", s.Macros.Fats, s.Breakdown.FatCalories)
		return w.Flush()
	})
}

func dateFlag(s string) (core.Date, error) {
	if s == "" {
		return core.Today(), nil
	}
	return core.ParseDate(s)
}
