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

	"github.com/avecor-crm/avecor-crm/internal/app"
	"github.com/avecor-crm/avecor-crm/internal/auth"
	"github.com/avecor-crm/avecor-crm/internal/customers"
	"github.com/avecor-crm/avecor-crm/internal/dashboard"
	"github.com/avecor-crm/avecor-crm/internal/observability"
	"github.com/avecor-crm/avecor-crm/internal/platform/cache"
	"github.com/avecor-crm/avecor-crm/internal/platform/db"
	"github.com/avecor-crm/avecor-crm/internal/platform/httpx"
	"github.com/avecor-crm/avecor-crm/internal/reports"
	"github.com/avecor-crm/avecor-crm/internal/users"
	"github.com/avecor-crm/avecor-crm/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

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
	responder := httpx.Responder{ExposeErrors: !cfg.IsProduction()}

	tokens := auth.NewTokenStore(redisClient, cfg.TokenTTL)
	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, tokens)
	authHandler := auth.NewHandler(logger, authService, responder)
	authMiddleware := auth.NewMiddleware(logger, authService)

	dashCache := dashboard.NewCache(redisClient, cfg.DashboardCacheTTL)
	if err := dashCache.ListenForInvalidation(ctx); err != nil {
		logger.Warn("dashboard cache subscription", slog.Any("error", err))
	}
	dashRepo := dashboard.NewPGRepository(pool)
	dashService := dashboard.NewService(dashRepo, dashCache, logger)
	dashHandler := dashboard.NewHandler(logger, dashService, responder)

	customerRepo := customers.NewPGRepository(pool)
	customerService := customers.NewService(customerRepo, dashCache, logger)
	customerHandler := customers.NewHandler(logger, customerService, responder, authMiddleware.RequireAdmin)

	userRepo := users.NewPGRepository(pool)
	userService := users.NewService(userRepo)
	userHandler := users.NewHandler(logger, userService, responder)

	reportRepo := reports.NewPGRepository(pool)
	reportService := reports.NewService(reportRepo)
	reportHandler := reports.NewHandler(logger, reportService, reports.NewExporter(), responder)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Metrics:          metrics,
		AuthHandler:      authHandler,
		AuthMiddleware:   authMiddleware,
		CustomerHandler:  customerHandler,
		UserHandler:      userHandler,
		DashboardHandler: dashHandler,
		ReportHandler:    reportHandler,
		JobsHandler:      jobsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
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
