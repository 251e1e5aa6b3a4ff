package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"successpath/internal/api"
	"successpath/internal/finance"
	"successpath/internal/storage"
)

type fakeQuotes struct {
	quote string
	err   error
}

func (f fakeQuotes) DailyQuote(context.Context) (string, error) { return f.quote, f.err }

type fakeStats struct {
	daily  api.DailyStats
	weekly []api.DayStats
	err    error
}

func (f fakeStats) DailyStats(context.Context) (api.DailyStats, error) { return f.daily, f.err }

func (f fakeStats) WeeklyStats(context.Context) ([]api.DayStats, error) { return f.weekly, nil }

// blockingQuotes waits for its context to end.
type blockingQuotes struct{}

func (blockingQuotes) DailyQuote(ctx context.Context) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestDashboardSectionTimeout(t *testing.T) {
	l := newTestLedger(storage.NewMemoryStore())
	d := NewDashboard(l, blockingQuotes{}, fakeStats{daily: api.DailyStats{Steps: 1200}})
	d.SetSectionTimeout(20 * time.Millisecond)

	start := time.Now()
	v := d.Build(context.Background(), day)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Build took %v", elapsed)
	}
	if v.Errors["quote"] != context.DeadlineExceeded.Error() {
		t.Fatalf("errors = %v", v.Errors)
	}
	if v.Daily == nil || v.Daily.Steps != 1200 {
		t.Fatalf("daily = %+v", v.Daily)
	}
	if _, ok := v.Errors["daily"]; ok {
		t.Fatalf("daily section should not fail: %v", v.Errors)
	}
}

func TestDashboardCollectsSectionErrors(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(storage.NewMemoryStore())
	if _, err := l.AddTransaction(ctx, finance.TransactionInput{Type: "income", Amount: "42"}); err != nil {
		t.Fatal(err)
	}

	d := NewDashboard(l,
		fakeQuotes{quote: "onward"},
		fakeStats{weekly: []api.DayStats{{Date: "Mon", Steps: 7000}}, err: errors.New("stats down")},
	)
	v := d.Build(ctx, day)

	if v.Quote != "onward" {
		t.Fatalf("quote = %q", v.Quote)
	}
	if v.Daily != nil {
		t.Fatalf("daily = %+v, want nil", v.Daily)
	}
	if len(v.Weekly) != 1 {
		t.Fatalf("weekly = %+v", v.Weekly)
	}
	if v.Errors["daily"] != "stats down" || len(v.Errors) != 1 {
		t.Fatalf("errors = %v", v.Errors)
	}
	if v.Finance.Balance.String() != "42" {
		t.Fatalf("balance = %s", v.Finance.Balance)
	}
	if len(v.Learning) != 2 {
		t.Fatalf("learning = %d modules", len(v.Learning))
	}
}

func TestDashboardWithoutCollaborators(t *testing.T) {
	v := NewDashboard(newTestLedger(storage.NewMemoryStore()), nil, nil).Build(context.Background(), day)
	if v.Quote != "" || v.Daily != nil || v.Errors != nil {
		t.Fatalf("view = %+v", v)
	}
}
