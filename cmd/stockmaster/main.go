package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/stockmaster-erp/stockmaster/internal/app"
	"github.com/stockmaster-erp/stockmaster/internal/auth"
	"github.com/stockmaster-erp/stockmaster/internal/dashboard"
	"github.com/stockmaster-erp/stockmaster/internal/history"
	"github.com/stockmaster-erp/stockmaster/internal/masterdata/categories"
	"github.com/stockmaster-erp/stockmaster/internal/masterdata/locations"
	"github.com/stockmaster-erp/stockmaster/internal/masterdata/operationtypes"
	"github.com/stockmaster-erp/stockmaster/internal/masterdata/products"
	"github.com/stockmaster-erp/stockmaster/internal/observability"
	"github.com/stockmaster-erp/stockmaster/internal/platform/cache"
	"github.com/stockmaster-erp/stockmaster/internal/platform/db"
	"github.com/stockmaster-erp/stockmaster/internal/quants"
	"github.com/stockmaster-erp/stockmaster/internal/settings"
	"github.com/stockmaster-erp/stockmaster/internal/shared"
	"github.com/stockmaster-erp/stockmaster/internal/stock"
	"github.com/stockmaster-erp/stockmaster/internal/tasks"
	"github.com/stockmaster-erp/stockmaster/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	tokens := shared.NewTokenManager(redisClient, "stockmaster:token", cfg.TokenTTL)

	queue, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job queue", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Warn("job queue close", slog.Any("error", err))
		}
	}()

	authService := auth.NewService(logger, auth.NewRepository(pool), tokens, queue, cfg.OTPTTL)
	categoryService := categories.NewService(categories.NewRepository(pool))
	productService := products.NewService(products.NewRepository(pool))
	locationService := locations.NewService(locations.NewRepository(pool))
	opTypeService := operationtypes.NewService(operationtypes.NewRepository(pool))
	taskService := tasks.NewService(tasks.NewRepository(pool))
	settingsService := settings.NewService(settings.NewRepository(pool))
	quantService := quants.NewService(quants.NewRepository(pool), settingsService)
	stockService := stock.NewService(logger, stock.NewRepository(pool), productService, locationService, opTypeService)
	dashboardService := dashboard.NewService(logger, dashboard.NewRepository(pool), settingsService, redisClient)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:  logger,
		Config:  cfg,
		Metrics: metrics,
		Tokens:  tokens,
		Pool:    pool,

		AuthHandler:          auth.NewHandler(logger, authService),
		CategoryHandler:      categories.NewHandler(logger, categoryService),
		ProductHandler:       products.NewHandler(logger, productService),
		LocationHandler:      locations.NewHandler(logger, locationService),
		OperationTypeHandler: operationtypes.NewHandler(logger, opTypeService),
		TaskHandler:          tasks.NewHandler(logger, taskService),
		StockHandler:         stock.NewHandler(logger, stockService),
		QuantHandler:         quants.NewHandler(logger, quantService),
		HistoryHandler:       history.NewHandler(logger, history.NewRepository(pool)),
		SettingsHandler:      settings.NewHandler(logger, settingsService),
		DashboardHandler:     dashboard.NewHandler(logger, dashboardService),
		JobsHandler:          jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
