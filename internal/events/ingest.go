package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"trackline/internal/apperrors"
	"trackline/internal/visitors"
)

var validate = validator.New()

// CollectEventInput defines the input required to collect an event.
// IP and UserAgent are request-provenance metadata supplied by the
// transport layer, not by the producer payload.
type CollectEventInput struct {
	UserID      string     `json:"userId"`
	AnonymousID string     `json:"anonymousId"`
	SessionID   string     `json:"sessionId"`
	EventName   string     `json:"eventName" validate:"required"`
	URL         string     `json:"url"`
	PageTitle   string     `json:"pageTitle"`
	Properties  Properties `json:"properties"`
	EventTime   time.Time  `json:"eventTime"`
	IP          string     `json:"-"`
	UserAgent   string     `json:"-"`
}

// CollectEvent validates the input and appends one event to the store,
// returning the store-assigned id. EventTime defaults to the ingestion
// instant when the producer did not supply one; CreatedAt always records
// the ingestion instant, since producers may batch or delay delivery.
// Both timestamps are normalized to UTC, whatever offset the producer
// sent, so stored values compare consistently.
func CollectEvent(ctx context.Context, store Store, logger *slog.Logger, input *CollectEventInput) (uint, error) {
	if err := validate.Struct(input); err != nil {
		return 0, fmt.Errorf("%w: eventName is required", apperrors.ErrInvalidArgument)
	}
	if err := input.Properties.Validate(); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	eventTime := input.EventTime
	if eventTime.IsZero() {
		eventTime = now
	} else {
		eventTime = eventTime.UTC()
	}

	event := &Event{
		UserID:      input.UserID,
		AnonymousID: input.AnonymousID,
		SessionID:   input.SessionID,
		EventName:   input.EventName,
		URL:         input.URL,
		PageTitle:   input.PageTitle,
		Properties:  input.Properties,
		EventTime:   eventTime,
		IP:          input.IP,
		UserAgent:   input.UserAgent,
		CreatedAt:   now,
	}

	id, err := store.Insert(ctx, event)
	if err != nil {
		logger.Error("Failed to store event", slog.Any("error", err))
		return 0, err
	}

	visitorID, hasVisitor := visitors.Resolve(event.UserID, event.AnonymousID)
	logger.Debug("Collected event",
		slog.Uint64("id", uint64(id)),
		slog.String("eventName", event.EventName),
		slog.String("visitor", visitorID),
		slog.Bool("identified", hasVisitor))
	return id, nil
}
