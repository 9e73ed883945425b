package http

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"trackline/internal/events"
)

const maxRecentEvents = 500

// CreateEvent ingests one event from the request body. Request
// provenance (client IP, User-Agent) is captured here, never trusted
// from the payload.
func (h *Handler) CreateEvent(c *fiber.Ctx) error {
	var input events.CollectEventInput
	if err := c.BodyParser(&input); err != nil {
		h.logger.Debug("Failed to parse event payload", slog.Any("error", err))
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
			"code":  "INVALID_ARGUMENT",
		})
	}

	input.IP = clientIP(c)
	input.UserAgent = c.Get("User-Agent")

	ctx, cancel := h.queryContext(c)
	defer cancel()

	id, err := h.svc.Ingest(ctx, &input)
	if err != nil {
		h.logger.Error("Failed to ingest event", slog.Any("error", err))
		return handleError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"eventId": id,
		"message": "Event tracked",
	})
}

// ListEvents returns the most recently ingested events, newest first.
func (h *Handler) ListEvents(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		return handleError(c, err)
	}
	if limit > maxRecentEvents {
		limit = maxRecentEvents
	}

	ctx, cancel := h.queryContext(c)
	defer cancel()

	results, err := h.svc.RecentEvents(ctx, limit)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"limit": limit,
		"data":  results,
	})
}
