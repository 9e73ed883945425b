// Package http is the thin fiber transport over the analytics service.
package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trackline/internal/config"
	"trackline/internal/service"
)

// Handler holds the transport's collaborators.
type Handler struct {
	svc          *service.Service
	logger       *slog.Logger
	queryTimeout time.Duration
}

// NewHandler creates the transport handler.
func NewHandler(svc *service.Service, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		svc:          svc,
		logger:       logger,
		queryTimeout: time.Duration(cfg.QueryTimeoutSeconds) * time.Second,
	}
}

// NewApp builds the fiber application with all routes mounted.
func NewApp(h *Handler, cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: cfg.IsTest(),
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "OK", "message": "Analytics system running"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	api.Post("/events", h.CreateEvent)
	api.Get("/events", h.ListEvents)

	analyticsAPI := api.Group("/analytics")
	analyticsAPI.Get("/events-per-day", h.EventsPerDay)
	analyticsAPI.Get("/top-pages", h.TopPages)
	analyticsAPI.Get("/unique-visitors", h.UniqueVisitors)
	analyticsAPI.Get("/retention", h.Retention)
	analyticsAPI.Get("/active-users", h.ActiveUsers)
	analyticsAPI.Get("/summary", h.DashboardSummary)
	analyticsAPI.Post("/summary/refresh", h.RefreshSummary)

	return app
}
