// Package worker exports stored records to the spreadsheet, driven by AMQP
// sync events with a periodic sweep as backstop.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"successpath/internal/amqp"
	"successpath/internal/finance"
	"successpath/internal/nutrition"
	"successpath/internal/sheets"
	"successpath/internal/storage"
)

// Store is the slice of the repository the worker needs.
type Store interface {
	Meal(ctx context.Context, id string) (nutrition.MealEntry, error)
	Transaction(ctx context.Context, id string) (finance.Transaction, error)
	Pending(ctx context.Context, limit int) ([]storage.Pending, error)
	MarkSynced(ctx context.Context, kind storage.Kind, id string) error
	MarkSyncError(ctx context.Context, kind storage.Kind, id string) error
}

// Consumer delivers sync messages until its context ends or it fails.
type Consumer interface {
	Consume(ctx context.Context, handler amqp.Handler) error
	Close() error
}

// Dialer opens a fresh consumer, e.g. after the broker connection dropped.
type Dialer func() (Consumer, error)

type SyncWorker struct {
	store     Store
	sheets    sheets.Exporter
	batchSize int
	observe   func(kind, outcome string)
	sleep     func(context.Context, time.Duration) error
}

func NewSyncWorker(store Store, exporter sheets.Exporter, batchSize int) *SyncWorker {
	if batchSize < 1 {
		batchSize = 10
	}
	return &SyncWorker{store: store, sheets: exporter, batchSize: batchSize, sleep: sleepCtx}
}

// OnEvent registers a callback for every export outcome.
func (w *SyncWorker) OnEvent(fn func(kind, outcome string)) {
	w.observe = fn
}

// HandleSyncMessage exports the record named by msg. A record deleted since
// the event was published is acknowledged without exporting.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.SyncMessage) error {
	slog.DebugContext(ctx, "Processing sync message", "kind", msg.Kind, "id", msg.ID, "version", msg.Version)
	err := w.export(ctx, storage.Kind(msg.Kind), msg.ID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.InfoContext(ctx, "Record gone before export, skipping", "kind", msg.Kind, "id", msg.ID)
		w.event(msg.Kind, "skipped")
		return nil
	}
	return err
}

// ProcessPending exports one batch of records still marked pending. Failures
// are logged and marked; the batch carries on.
func (w *SyncWorker) ProcessPending(ctx context.Context) (int, error) {
	return w.sweep(ctx, w.batchSize)
}

// StartupSyncCheck runs a larger sweep to catch up after downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	synced, err := w.sweep(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("startup sync: %w", err)
	}
	slog.InfoContext(ctx, "Startup sync completed", "synced", synced)
	return nil
}

func (w *SyncWorker) sweep(ctx context.Context, limit int) (int, error) {
	pending, err := w.store.Pending(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("get pending records: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	slog.InfoContext(ctx, "Processing pending records", "count", len(pending))
	synced := 0
	for _, p := range pending {
		if err := w.export(ctx, p.Kind, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending record", "kind", p.Kind, "id", p.ID, "error", err)
			continue
		}
		synced++
	}
	return synced, nil
}

func (w *SyncWorker) export(ctx context.Context, kind storage.Kind, id string) error {
	var (
		ref string
		err error
	)
	switch kind {
	case storage.KindMeal:
		var e nutrition.MealEntry
		if e, err = w.store.Meal(ctx, id); err == nil {
			ref, err = w.sheets.AppendMeal(ctx, e)
		}
	case storage.KindTransaction:
		var t finance.Transaction
		if t, err = w.store.Transaction(ctx, id); err == nil {
			ref, err = w.sheets.AppendTransaction(ctx, t)
		}
	default:
		return fmt.Errorf("%w: %q", storage.ErrUnknownKind, kind)
	}

	if errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, kind, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "kind", kind, "id", id, "error", markErr)
		}
		w.event(string(kind), "failed")
		return fmt.Errorf("export %s %s: %w", kind, id, err)
	}

	if err := w.store.MarkSynced(ctx, kind, id); err != nil {
		// The row is in the sheet; a later sweep finds it by ID.
		slog.ErrorContext(ctx, "Failed to mark as synced", "kind", kind, "id", id, "error", err)
	}
	w.event(string(kind), "exported")
	slog.InfoContext(ctx, "Record exported", "kind", kind, "id", id, "sheets_ref", ref)
	return nil
}

func (w *SyncWorker) event(kind, outcome string) {
	if w.observe != nil {
		w.observe(kind, outcome)
	}
}

// Run sweeps pending records every interval and, when dial is non-nil,
// consumes sync messages, redialing with backoff on connection loss. It
// returns when ctx ends.
func (w *SyncWorker) Run(ctx context.Context, dial Dialer, interval time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if _, err := w.ProcessPending(ctx); err != nil {
					slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
				}
			}
		}
	})

	if dial != nil {
		g.Go(func() error { return w.consumeLoop(ctx, dial) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (w *SyncWorker) consumeLoop(ctx context.Context, dial Dialer) error {
	for attempt := 0; ; {
		c, err := dial()
		if err == nil {
			attempt = 0
			err = c.Consume(ctx, w.HandleSyncMessage)
			c.Close()
		}
		if ctx.Err() != nil {
			return nil
		}
		if err != nil && !amqp.IsConnectionError(err) {
			return fmt.Errorf("consume sync messages: %w", err)
		}

		delay := amqp.Backoff(attempt)
		attempt++
		slog.WarnContext(ctx, "AMQP connection lost, reconnecting", "error", err, "delay", delay)
		if err := w.sleep(ctx, delay); err != nil {
			return nil
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
