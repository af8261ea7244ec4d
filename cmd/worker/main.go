package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matchday/league-api/internal/app"
	"github.com/matchday/league-api/internal/config"
	"github.com/matchday/league-api/internal/platform/logging"
)

// The worker binary hosts the C7 ingestion consumer: it dequeues match
// submissions the API enqueued and applies them under score-lock rules.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer logger.Sync()

	svc, closeApp, err := app.Build(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer closeApp()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("ingestion worker starting", "concurrency", cfg.WorkerConcurrency)
	if err := svc.Worker.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("ingestion worker failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestion worker stopped")
}
