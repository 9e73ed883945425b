package internal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"

	"trackline/internal/analytics"
	"trackline/internal/cache"
	"trackline/internal/config"
	"trackline/internal/database"
	"trackline/internal/events"
	httptransport "trackline/internal/http"
	"trackline/internal/jobs"
	"trackline/internal/logging"
	"trackline/internal/service"
)

// Application owns the wiring of all components and their lifecycle.
// Every collaborator is constructed here and passed down explicitly.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	DBManager *database.Manager
	Service   *service.Service

	redisClient *redis.Client
	queue       *jobs.Queue
	worker      *jobs.SummaryWorker
	scheduler   *jobs.Scheduler
	server      *fiber.App
}

// NewApp builds the application graph: config, logger, database, cache,
// engine, queue, worker, scheduler and HTTP server.
func NewApp() (*Application, error) {
	cfg := config.GetConfig()
	logger := logging.NewLogger(cfg)

	dbManager := database.NewManager(cfg, logger)
	if err := dbManager.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	summaries := cache.NewSummaryCache(redisClient, time.Duration(cfg.SummaryTTLSeconds)*time.Second)

	store := events.NewGormStore(dbManager.GetConnection())
	engine := analytics.NewEngine(store, logger)

	queue := jobs.NewQueue(cfg.QueueSize, logger)
	jobTimeout := time.Duration(cfg.QueryTimeoutSeconds) * time.Second
	worker := jobs.NewSummaryWorker(queue, engine, summaries, logger, jobTimeout)
	cleanup := jobs.NewCleanupJob(store, logger, cfg)
	scheduler := jobs.NewScheduler(queue, cleanup, cfg, logger)

	svc := service.New(store, engine, summaries, queue, cfg, logger)
	handler := httptransport.NewHandler(svc, cfg, logger)
	server := httptransport.NewApp(handler, cfg)

	return &Application{
		Config:      cfg,
		Logger:      logger,
		DBManager:   dbManager,
		Service:     svc,
		redisClient: redisClient,
		queue:       queue,
		worker:      worker,
		scheduler:   scheduler,
		server:      server,
	}, nil
}

// StartAsync launches the background worker, the scheduler and the HTTP
// listener. Listener errors surface through the logger.
func (a *Application) StartAsync() error {
	a.worker.Start()
	if err := a.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	go func() {
		addr := ":" + a.Config.AppPort
		a.Logger.Info("HTTP server listening", slog.String("addr", addr))
		if err := a.server.Listen(addr); err != nil {
			a.Logger.Error("HTTP server stopped", slog.Any("error", err))
		}
	}()
	return nil
}

// Shutdown stops the components in reverse dependency order.
func (a *Application) Shutdown(ctx context.Context) error {
	a.Logger.Info("Shutting down...")

	if err := a.server.ShutdownWithContext(ctx); err != nil {
		a.Logger.Error("HTTP server shutdown failed", slog.Any("error", err))
	}
	a.scheduler.Stop()
	a.worker.Stop()

	if err := a.redisClient.Close(); err != nil {
		a.Logger.Warn("Failed to close redis client", slog.Any("error", err))
	}
	if err := a.DBManager.Close(); err != nil {
		a.Logger.Warn("Failed to close database", slog.Any("error", err))
		return err
	}

	a.Logger.Info("Shutdown complete")
	return nil
}
