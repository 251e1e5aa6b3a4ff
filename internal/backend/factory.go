package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"successpath/internal/amqp"
	"successpath/internal/sheets"
	gsheet "successpath/internal/sheets/google"
	"successpath/internal/sheets/memory"
	"successpath/internal/storage"
)

type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without sync events", "error", err)
			amqpClient = nil
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	result := &BackendResult{Store: repo}
	if amqpClient != nil {
		result.Publisher = amqpClient
	}
	result.Cleanup = func() error {
		var errs []error
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				errs = append(errs, fmt.Errorf("amqp: %w", err))
			}
		}
		if err := repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
		return errors.Join(errs...)
	}
	return result, nil
}

func (f *DefaultFactory) createMemoryBackend() *BackendResult {
	f.logger.Info("Initialized memory backend")
	return &BackendResult{Store: storage.NewMemoryStore(), Cleanup: func() error { return nil }}
}

// ExportConfig selects the spreadsheet exporter used by the worker.
type ExportConfig struct {
	Google gsheet.Config
}

func (c ExportConfig) enabled() bool {
	return c.Google.SpreadsheetID != ""
}

// NewExporter returns the Google exporter when a spreadsheet is configured and
// an in-memory one otherwise.
func NewExporter(ctx context.Context, logger *slog.Logger, cfg ExportConfig) (sheets.Exporter, error) {
	if !cfg.enabled() {
		logger.Warn("No spreadsheet configured, exporting to memory")
		return memory.New(), nil
	}
	cli, err := gsheet.New(ctx, cfg.Google)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	logger.Info("Initialized Google Sheets exporter", "spreadsheet_id", cfg.Google.SpreadsheetID)
	return cli, nil
}
