package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/stockmaster-erp/stockmaster/internal/app"
	jobmetrics "github.com/stockmaster-erp/stockmaster/internal/jobs"
	"github.com/stockmaster-erp/stockmaster/internal/platform/db"
	"github.com/stockmaster-erp/stockmaster/internal/quants"
	"github.com/stockmaster-erp/stockmaster/internal/settings"
	"github.com/stockmaster-erp/stockmaster/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	settingsService := settings.NewService(settings.NewRepository(pool))
	quantService := quants.NewService(quants.NewRepository(pool), settingsService)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Metrics:   jobmetrics.NewMetrics(nil),
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeMailOTP, Handler: jobs.NewMailOTPHandler(logger, jobs.SMTPConfig{
				Host: cfg.SMTPHost,
				Port: cfg.SMTPPort,
				From: cfg.SMTPFrom,
			})},
			{Type: jobs.TaskTypeLowStockScan, Handler: jobs.NewLowStockScanHandler(logger, quantService)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.LowStockScanCron, Task: jobs.NewLowStockScanTask(), Options: []asynq.Option{asynq.MaxRetry(1)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
