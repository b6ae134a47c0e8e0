package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"finfetcher/internal/app/di"
	"finfetcher/internal/app/scheduler"
	"finfetcher/internal/platform/config"
	"finfetcher/internal/platform/logger"
)

// With INGEST_CRON set the process stays up and ingests on that schedule;
// otherwise it ingests once and exits.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logCloser, err := logger.Setup(cfg.Log)
	if err != nil {
		slog.Error("failed to configure logger", "error", err)
		os.Exit(1)
	}
	defer func() { _ = logCloser.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := di.Build(ctx, cfg)
	if err != nil {
		slog.Error("failed to build app", "error", err)
		os.Exit(1)
	}
	defer func() { _ = app.Close() }()

	runOnce := func(ctx context.Context) bool {
		report, err := app.RunIngest(ctx)
		if err != nil {
			slog.Error("ingest failed", "run_id", report.RunID, "error", err)
			return false
		}
		slog.Info("ingest ok", "run_id", report.RunID, "ingested", report.Ingested, "skipped", report.Skipped, "failed", report.Failed)
		return report.Failed == 0
	}

	if cfg.Ingest.Cron == "" {
		runCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
		ok := runOnce(runCtx)
		cancel()
		if !ok {
			_ = app.Close()
			os.Exit(1)
		}
		return
	}

	s, err := scheduler.New(cfg.Ingest.Cron, func(ctx context.Context) { runOnce(ctx) })
	if err != nil {
		slog.Error("invalid INGEST_CRON", "error", err)
		os.Exit(1)
	}
	s.Start()
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	s.Stop(stopCtx)
}
