package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// EventsPerDay serves GET /api/analytics/events-per-day?days=&eventName=
func (h *Handler) EventsPerDay(c *fiber.Ctx) error {
	days, err := queryInt(c, "days", h.svc.DefaultDays())
	if err != nil {
		return handleError(c, err)
	}
	eventName := c.Query("eventName")

	ctx, cancel := h.queryContext(c)
	defer cancel()

	data, err := h.svc.EventsPerDay(ctx, days, eventName)
	if err != nil {
		return handleError(c, err)
	}

	nameLabel := eventName
	if nameLabel == "" {
		nameLabel = "ALL"
	}
	return c.JSON(fiber.Map{
		"days":      days,
		"eventName": nameLabel,
		"data":      data,
	})
}

// TopPages serves GET /api/analytics/top-pages?days=&limit=
func (h *Handler) TopPages(c *fiber.Ctx) error {
	days, err := queryInt(c, "days", h.svc.DefaultDays())
	if err != nil {
		return handleError(c, err)
	}
	limit, err := queryInt(c, "limit", h.svc.DefaultTopLimit())
	if err != nil {
		return handleError(c, err)
	}

	ctx, cancel := h.queryContext(c)
	defer cancel()

	data, err := h.svc.TopPages(ctx, days, limit)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"days":  days,
		"limit": limit,
		"data":  data,
	})
}

// UniqueVisitors serves GET /api/analytics/unique-visitors?days=
func (h *Handler) UniqueVisitors(c *fiber.Ctx) error {
	days, err := queryInt(c, "days", h.svc.DefaultDays())
	if err != nil {
		return handleError(c, err)
	}

	ctx, cancel := h.queryContext(c)
	defer cancel()

	count, err := h.svc.UniqueVisitors(ctx, days)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"days":           days,
		"uniqueVisitors": count,
	})
}

// Retention serves GET /api/analytics/retention?days=
func (h *Handler) Retention(c *fiber.Ctx) error {
	days, err := queryInt(c, "days", h.svc.DefaultDays())
	if err != nil {
		return handleError(c, err)
	}

	ctx, cancel := h.queryContext(c)
	defer cancel()

	result, err := h.svc.Retention(ctx, days)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"days": days,
		"data": result,
	})
}

// ActiveUsers serves GET /api/analytics/active-users
func (h *Handler) ActiveUsers(c *fiber.Ctx) error {
	ctx, cancel := h.queryContext(c)
	defer cancel()

	result, err := h.svc.ActiveUsers(ctx)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(result)
}

// DashboardSummary serves GET /api/analytics/summary?days=&limit=
func (h *Handler) DashboardSummary(c *fiber.Ctx) error {
	days, err := queryInt(c, "days", h.svc.DefaultDays())
	if err != nil {
		return handleError(c, err)
	}
	limit, err := queryInt(c, "limit", h.svc.DefaultTopLimit())
	if err != nil {
		return handleError(c, err)
	}

	ctx, cancel := h.queryContext(c)
	defer cancel()

	summary, cached, err := h.svc.DashboardSummary(ctx, days, limit)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"cached": cached,
		"data":   summary,
	})
}

// RefreshSummary serves POST /api/analytics/summary/refresh?days=&limit=
// by enqueueing a background recomputation.
func (h *Handler) RefreshSummary(c *fiber.Ctx) error {
	days, err := queryInt(c, "days", h.svc.DefaultDays())
	if err != nil {
		return handleError(c, err)
	}
	limit, err := queryInt(c, "limit", h.svc.DefaultTopLimit())
	if err != nil {
		return handleError(c, err)
	}

	job, err := h.svc.RefreshSummaryAsync(days, limit)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"jobId":   job.ID,
		"message": "Summary refresh queued",
	})
}
