package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"successpath/internal/api"
	"successpath/internal/core"
	"successpath/internal/finance"
	"successpath/internal/learning"
	"successpath/internal/nutrition"
)

type QuoteSource interface {
	DailyQuote(ctx context.Context) (string, error)
}

type StatsSource interface {
	DailyStats(ctx context.Context) (api.DailyStats, error)
	WeeklyStats(ctx context.Context) ([]api.DayStats, error)
}

// DashboardView aggregates local summaries with collaborator data. A failed
// collaborator call leaves its field empty and adds an entry to Errors.
type DashboardView struct {
	Date     core.Date              `json:"date"`
	Quote    string                 `json:"quote,omitempty"`
	Daily    *api.DailyStats        `json:"daily,omitempty"`
	Weekly   []api.DayStats         `json:"weekly,omitempty"`
	Macros   nutrition.DailySummary `json:"macros"`
	Finance  finance.Totals         `json:"finance"`
	Learning []learning.Module      `json:"learning"`
	Errors   map[string]string      `json:"errors,omitempty"`
}

// DefaultSectionTimeout bounds each collaborator section of the dashboard.
const DefaultSectionTimeout = 5 * time.Second

type Dashboard struct {
	ledger  *Ledger
	quotes  QuoteSource
	stats   StatsSource
	timeout time.Duration
}

// NewDashboard accepts nil sources; their sections are then left out.
func NewDashboard(ledger *Ledger, quotes QuoteSource, stats StatsSource) *Dashboard {
	return &Dashboard{ledger: ledger, quotes: quotes, stats: stats, timeout: DefaultSectionTimeout}
}

// SetSectionTimeout changes how long a single section may take.
func (d *Dashboard) SetSectionTimeout(timeout time.Duration) {
	if timeout > 0 {
		d.timeout = timeout
	}
}

// Build never fails. Collaborator sections run concurrently, each under its
// own timeout; a failed section is reported in Errors and leaves the others
// untouched.
func (d *Dashboard) Build(ctx context.Context, date core.Date) DashboardView {
	v := DashboardView{
		Date:     date,
		Macros:   d.ledger.DailyMacros(date),
		Finance:  d.ledger.Totals(),
		Learning: d.ledger.Modules(),
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	// section never returns an error to the group.
	section := func(name string, fetch func(context.Context) error) {
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()
			if err := fetch(sctx); err != nil {
				slog.WarnContext(ctx, "Dashboard section unavailable", "section", name, "error", err)
				mu.Lock()
				if v.Errors == nil {
					v.Errors = map[string]string{}
				}
				v.Errors[name] = err.Error()
				mu.Unlock()
			}
			return nil
		})
	}

	if d.quotes != nil {
		section("quote", func(ctx context.Context) error {
			q, err := d.quotes.DailyQuote(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			v.Quote = q
			mu.Unlock()
			return nil
		})
	}
	if d.stats != nil {
		section("daily", func(ctx context.Context) error {
			s, err := d.stats.DailyStats(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			v.Daily = &s
			mu.Unlock()
			return nil
		})
		section("weekly", func(ctx context.Context) error {
			w, err := d.stats.WeeklyStats(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			v.Weekly = w
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return v
}
