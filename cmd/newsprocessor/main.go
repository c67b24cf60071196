package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/qizhangumich/arabian-news-process/internal/app"
	"github.com/qizhangumich/arabian-news-process/internal/config"
	"github.com/qizhangumich/arabian-news-process/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		application.Close()
		os.Exit(1)
	}
}
