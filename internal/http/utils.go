package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"trackline/internal/apperrors"
	"trackline/internal/jobs"
)

// statusClientClosedRequest is the conventional (non-RFC) status for a
// request abandoned by the client.
const statusClientClosedRequest = 499

// queryInt reads an integer query parameter, applying def when the
// parameter is absent. A present-but-unparsable value is an
// InvalidArgument; range validation is left to the service.
func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", apperrors.ErrInvalidArgument, name, raw)
	}
	return value, nil
}

// clientIP extracts the originating client address: first hop of
// X-Forwarded-For when present, otherwise the connection address.
func clientIP(c *fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}
	return c.IP()
}

// queryContext derives a deadline-bounded context for store/cache calls
// so a slow backend degrades to an error instead of hanging the request.
func (h *Handler) queryContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), h.queryTimeout)
}

// handleError maps taxonomy errors onto HTTP statuses.
func handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "INVALID_ARGUMENT",
		})
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "event store unavailable",
			"code":  "STORE_UNAVAILABLE",
		})
	case errors.Is(err, jobs.ErrQueueFull):
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "recompute queue full, try again later",
			"code":  "QUEUE_FULL",
		})
	case errors.Is(err, context.DeadlineExceeded):
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "query timed out",
			"code":  "STORE_UNAVAILABLE",
		})
	case errors.Is(err, context.Canceled):
		// Client went away mid-query; nginx-style status.
		return c.Status(statusClientClosedRequest).JSON(fiber.Map{
			"error": "request cancelled",
			"code":  "REQUEST_CANCELLED",
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
			"code":  "INTERNAL",
		})
	}
}
