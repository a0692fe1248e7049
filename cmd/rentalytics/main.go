package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	corecfg "github.com/rentlab/rentalytics/internal/core/config"
	"github.com/rentlab/rentalytics/internal/core/storage"
	"github.com/rentlab/rentalytics/internal/core/storage/postgres"
	"github.com/rentlab/rentalytics/internal/ingestion"
	"github.com/rentlab/rentalytics/internal/migrations"
	"github.com/rentlab/rentalytics/internal/projection"
	"github.com/rentlab/rentalytics/internal/refresh"
	"github.com/rentlab/rentalytics/internal/server"
	"github.com/rentlab/rentalytics/internal/summarizer"
)

func main() {
	configPath := flag.String("config", "rentalytics.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config", "config", cfg)

	// 2. Initialize Storage (PostgreSQL, detail + summary)
	store, err := postgres.NewAdapter(
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
	)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// 2.1. Run Database Migrations
	if err := migrations.Run(store.DB(), cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	// 3. Initialize the upstream feed reader
	var feed storage.SourceFeed
	sourceAdapter, err := postgres.NewSourceAdapter(
		cfg.EffectiveSourceDSN(),
		cfg.Source.MaxOpenConns,
		cfg.Source.MaxIdleConns,
	)
	if err != nil {
		slog.Error("Failed to initialize source feed", "error", err)
		os.Exit(1)
	}
	defer sourceAdapter.Close()
	feed = sourceAdapter

	// 4. Initialize Services
	trigger := summarizer.NewTrigger()
	summarizerSvc := summarizer.NewService(store, trigger)
	ingestionSvc := ingestion.NewService(feed, store, summarizerSvc, cfg.Server.MaxBodySizeMB)
	orchestrator := refresh.NewOrchestrator(store, ingestionSvc, summarizerSvc)
	projectionSvc := projection.NewService(store)

	// 5. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), store.DB(), cfg.Server.Mode)
	ingestionSvc.RegisterRoutes(srv.Engine)
	summarizerSvc.RegisterRoutes(srv.Engine)
	orchestrator.RegisterRoutes(srv.Engine)
	projectionSvc.RegisterRoutes(srv.Engine)

	// 6. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Periodic full-refresh fallback, if enabled.
	if cfg.Refresh.Auto {
		interval, err := cfg.Refresh.RefreshInterval()
		if err != nil {
			slog.Error("Invalid refresh interval", "value", cfg.Refresh.Interval, "error", err)
			os.Exit(1)
		}

		scheduler := refresh.NewScheduler(interval, orchestrator)
		go func() {
			if err := scheduler.Start(ctx); err != nil {
				slog.Error("Scheduler stopped with error", "error", err)
			}
		}()
	} else {
		slog.Info("Periodic refresh disabled by config")
	}

	// Signal handler → triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
