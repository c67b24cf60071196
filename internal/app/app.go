package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qizhangumich/arabian-news-process/internal/config"
	"github.com/qizhangumich/arabian-news-process/internal/infrastructure/history"
	"github.com/qizhangumich/arabian-news-process/internal/infrastructure/llm"
	"github.com/qizhangumich/arabian-news-process/internal/infrastructure/scheduler"
	"github.com/qizhangumich/arabian-news-process/internal/infrastructure/store"
	"github.com/qizhangumich/arabian-news-process/internal/infrastructure/telegram"
	"github.com/qizhangumich/arabian-news-process/internal/logging"
	"github.com/qizhangumich/arabian-news-process/internal/ports"
	"github.com/qizhangumich/arabian-news-process/internal/usecase"
)

// Application wires configuration to the pipeline and its adapters. All
// external clients are constructed here and injected; an error from New means
// the job cannot run at all and the process should exit non-zero.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	history  *history.SQLiteRecorder
	closers  []func() error
}

// New builds a runnable application instance. Credential or client problems
// are fatal here, before any store access.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	app := &Application{cfg: cfg, logger: baseLogger}

	fsClient, err := store.Connect(ctx, cfg.Firestore)
	if err != nil {
		return nil, fmt.Errorf("initialize firestore: %w", err)
	}
	app.closers = append(app.closers, fsClient.Close)

	articleStore := store.New(fsClient, cfg.Firestore.SourceCollection,
		baseLogger.With("component", "store"))

	if err := articleStore.ListCollections(ctx); err != nil {
		baseLogger.Warn("could not list collections", "error", err)
	}

	chatClient, err := llm.NewOpenAIClient(cfg.OpenAI)
	if err != nil {
		return nil, fmt.Errorf("initialize openai client: %w", err)
	}

	enricher := usecase.NewEnricher(chatClient, baseLogger.With("component", "enricher"))

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier = telegram.NewNotifier(
			cfg.Notifications.Telegram.BotToken,
			cfg.Notifications.Telegram.ChatID,
		)
	}

	var recorder ports.RunRecorder
	if cfg.History.Path != "" {
		rec, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open run history: %w", err)
		}
		app.history = rec
		app.closers = append(app.closers, rec.Close)
		recorder = rec

		if last, ok, err := rec.LastRun(ctx); err == nil && ok {
			baseLogger.Info("previous run",
				"finished", last.FinishedAt, "fetched", last.Fetched, "saved", last.Saved)
		}
	}

	app.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Store:               articleStore,
		Enricher:            enricher,
		Notifier:            notifier,
		History:             recorder,
		Logger:              baseLogger.With("component", "pipeline"),
		Location:            cfg.Scheduler.Location(),
		ProcessedCollection: cfg.Firestore.ProcessedCollection,
		FallbackLimit:       cfg.FallbackLimit,
	})

	return app, nil
}

// Run executes the pipeline once, or on the configured cron schedule until
// ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if a.cfg.Scheduler.CronExpression == "" {
		return a.pipeline.Run(ctx)
	}

	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started", "cron", a.cfg.Scheduler.CronExpression)

	<-ctx.Done()
	return sched.Stop(context.Background())
}

// Close releases all clients opened by New.
func (a *Application) Close() {
	for _, close := range a.closers {
		if err := close(); err != nil {
			a.logger.Error("close resource", "error", err)
		}
	}
}
