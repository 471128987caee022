package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/fxping/ratehub/internal/api"
	"github.com/fxping/ratehub/internal/config"
	"github.com/fxping/ratehub/internal/database"
	"github.com/fxping/ratehub/internal/domain"
	"github.com/fxping/ratehub/internal/export"
	"github.com/fxping/ratehub/internal/rates"
	"github.com/fxping/ratehub/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "run the rates proxy and table API (configured through environment variables)",
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	cat, err := loadCatalog(cfg.CurrencyCatalog, cfg.ExcludedCurrencies, cfg.PriorityCurrencies)
	if err != nil {
		return fmt.Errorf("loading currency catalog: %w", err)
	}

	client := rates.NewClient(cfg.UpstreamURL(), cfg.RatesTimeout, cfg.RatesRetryMax, cfg.RatesRetryBaseDelay)
	store := rates.NewStore()

	var repo rates.Repository
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()

		migrationsSub, err := fs.Sub(migrationsFS, "migrations")
		if err != nil {
			return fmt.Errorf("creating migrations sub-fs: %w", err)
		}
		if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		repo = rates.NewPgRepository(pool)
	} else {
		slog.Info("DATABASE_URL not set, snapshots are kept in memory only")
	}

	svc := rates.NewService(client, store, repo)
	if err := svc.Restore(ctx, cfg.BaseCurrency); err != nil {
		slog.Warn("failed to restore persisted snapshot", "error", err)
	}

	var hook worker.AfterRefreshHook
	if cfg.SheetsEnabled() {
		writer, err := export.NewSheetsWriter(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleCredentialsJSON)
		if err != nil {
			return fmt.Errorf("creating sheets writer: %w", err)
		}
		view := domain.DefaultViewState()
		view.Base = cfg.BaseCurrency
		hook = export.NewPublisher(svc, cat, view, writer)
	}

	refreshWorker := worker.NewRefreshWorker(svc, cfg.UpdateInterval, hook)
	go refreshWorker.Run(ctx)

	lim, err := api.NewLimiter(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("parsing RATE_LIMIT %q: %w", cfg.RateLimit, err)
	}

	srv := api.NewServer(cfg.HTTPPort, api.NewHandler(svc, cat), lim, cfg.CORSAllowedOrigins)

	go func() {
		slog.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
	return nil
}
