package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"successpath/internal/amqp"
	"successpath/internal/backend"
	"successpath/internal/cli"
	"successpath/internal/log"
	"successpath/internal/metrics"
	gsheet "successpath/internal/sheets/google"
	"successpath/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentWorker)
	logger.Info("Starting successpath-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)

	exporter, err := backend.NewExporter(context.Background(), logger.Logger, backend.ExportConfig{
		Google: gsheet.Config{
			SpreadsheetID:      cfg.GoogleSpreadsheetID,
			TransactionsSheet:  cfg.GoogleTransactionsSheet,
			MealsSheet:         cfg.GoogleMealsSheet,
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
		},
	})
	if err != nil {
		logger.Error("Failed to initialize exporter", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	w := worker.NewSyncWorker(repo, exporter, cfg.SyncBatchSize)
	w.OnEvent(m.SyncEvent)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := repo.Ping(r.Context()); err != nil {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Metrics server shutdown error", "error", err)
		}
	})

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server error", "error", err, "port", cfg.Port)
		}
	}()

	logger.Info("Performing startup sync check")
	if err := w.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", "error", err)
	}

	var dial worker.Dialer
	if cfg.AMQPURL != "" {
		dial = func() (worker.Consumer, error) {
			c, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
			if err != nil {
				return nil, err
			}
			return c, nil
		}
	} else {
		logger.Info("AMQP disabled, relying on the periodic sweep", "interval", cfg.SyncInterval)
	}

	if err := w.Run(ctx, dial, cfg.SyncInterval); err != nil {
		logger.Error("Sync worker stopped", "error", err)
		repo.Close()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	if err := repo.Close(); err != nil {
		logger.Error("Failed to close repository", "error", err)
	}
	logger.Info("Worker stopped gracefully")
}
