package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"successpath/internal/api"
	"successpath/internal/backend"
	"successpath/internal/cache"
	"successpath/internal/cli"
	apphttp "successpath/internal/http"
	"successpath/internal/learning"
	"successpath/internal/log"
	"successpath/internal/metrics"
	"successpath/internal/playlist"
	"successpath/internal/services"
)

const musicCacheSize = 32

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	m := metrics.New()

	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.Logger).CreateBackend(context.Background(), backendConfig)
	if err != nil {
		logger.Error("Failed to create backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	opts := []services.LedgerOption{services.WithOperationObserver(m.LedgerOperation)}
	if result.Publisher != nil {
		opts = append(opts, services.WithPublisher(result.Publisher))
	}
	ledger := services.NewLedger(result.Store, learning.DefaultCatalog(), opts...)

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = ledger.Load(loadCtx)
	loadCancel()
	if err != nil {
		logger.Error("Failed to load ledger", "error", err)
		os.Exit(1)
	}

	catalog := playlist.DefaultCatalog()
	var (
		music   services.MusicSource = catalog
		quotes  services.QuoteSource
		stats   services.StatsSource
		diet    apphttp.DietPlanner
		content *api.CachedContent
	)

	if cfg.CollaboratorURL != "" {
		client := api.NewClient(cfg.CollaboratorURL, cfg.CollaboratorTimeout, api.WithObserver(m.ObserveCollaborator))
		if cfg.CollaboratorEmail != "" {
			loginCtx, loginCancel := context.WithTimeout(context.Background(), cfg.CollaboratorTimeout)
			_, err := api.NewAuthService(client).Login(loginCtx, cfg.CollaboratorEmail, cfg.CollaboratorPassword)
			loginCancel()
			if err != nil {
				logger.Warn("Collaborator login failed, continuing without a session", "error", err)
			}
		}
		content = api.NewCachedContent(api.NewContentService(client), musicCacheSize, cfg.ContentCacheTTL)
		music, quotes, diet = content, content, content
		stats = api.NewActivityService(client)
		logger.Info("Collaborator backend enabled", "url", cfg.CollaboratorURL)
	} else {
		logger.Info("No collaborator configured, serving the built-in music catalog")
	}

	dashboard := services.NewDashboard(ledger, quotes, stats)
	dashboard.SetSectionTimeout(cfg.CollaboratorTimeout)

	player := services.NewPlayer(music)
	player.OnStale(m.StaleResponse)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Ledger:             ledger,
		Player:             player,
		Dashboard:          dashboard,
		Music:              music,
		Genres:             catalog,
		Diet:               diet,
		Metrics:            m.Handler(),
		Logger:             logger.WithComponent(log.ComponentHTTP),
		Observe:            m.ObserveHTTP,
		OnLimit:            m.RateLimited,
		Ready:              result.Store.Ping,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})

	if content != nil && cfg.ContentCacheTTL > 0 {
		go cache.NewJanitor(content.Caches()...).Run(ctx, cfg.ContentCacheTTL)
	}

	logger.Info("Starting successpath API", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
