package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/pkg/logger"
	"flightwatch-service/pkg/utils"

	"gorm.io/gorm"
)

// ErrBadRequest marks a webhook payload that failed normalization: malformed
// JSON, unknown event kind, or no usable flight identifier. The gateway
// rejects these without writing to the store.
var ErrBadRequest = errors.New("invalid event payload")

// WebhookPayload is the inbound provider delivery shape. Unknown fields are
// ignored; the verbatim body is preserved on the stored event for audit.
type WebhookPayload struct {
	Event       string          `json:"event"`
	Ident       string          `json:"ident"`
	FaFlightID  string          `json:"fa_flight_id"`
	Aircraft    string          `json:"aircraft"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Timestamp   json.RawMessage `json:"timestamp"`
	DeliveryID  string          `json:"delivery_id"`
}

// IngestClock assigns receivedAt values. Within one identifier the values are
// strictly increasing even under concurrent deliveries, so latest-wins is
// well-defined.
type IngestClock struct {
	mu   sync.Mutex
	last map[string]time.Time
}

// NewIngestClock creates a new ingest clock
func NewIngestClock() *IngestClock {
	return &IngestClock{
		last: make(map[string]time.Time),
	}
}

// Next returns the receipt timestamp for the next accepted delivery of ident.
func (c *IngestClock) Next(ident string) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := time.Now().UTC()
	if last, ok := c.last[ident]; ok && !t.After(last) {
		t = last.Add(time.Nanosecond)
	}
	c.last[ident] = t
	return t
}

// IngestResult reports the outcome of one accepted delivery.
type IngestResult struct {
	Event     *entity.StatusEvent
	Duplicate bool
}

// EventIngestor normalizes provider webhook bodies into canonical status
// events and appends them to the event store.
type EventIngestor struct {
	eventRepo     repository.StatusEventRepository
	aircraftRepo  repository.AircraftRepository
	deliveryCache repository.DeliveryCache
	clock         *IngestClock
	eventTTL      time.Duration
	cacheTTL      time.Duration
	logger        logger.Logger
}

// NewEventIngestor creates a new event ingestor. aircraftRepo and
// deliveryCache are optional; without them ident canonicalization and
// redelivery detection are skipped.
func NewEventIngestor(
	eventRepo repository.StatusEventRepository,
	aircraftRepo repository.AircraftRepository,
	deliveryCache repository.DeliveryCache,
	eventTTL time.Duration,
	cacheTTL time.Duration,
	logger logger.Logger,
) *EventIngestor {
	return &EventIngestor{
		eventRepo:     eventRepo,
		aircraftRepo:  aircraftRepo,
		deliveryCache: deliveryCache,
		clock:         NewIngestClock(),
		eventTTL:      eventTTL,
		cacheTTL:      cacheTTL,
		logger:        logger,
	}
}

// Ingest validates and stores one webhook delivery. The raw body is preserved
// verbatim on the event. Normalization fails closed: anything without a known
// event kind and a usable identifier is rejected before the store is touched.
func (i *EventIngestor) Ingest(ctx context.Context, rawBody []byte) (*IngestResult, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	if !entity.ValidEventKind(payload.Event) {
		return nil, fmt.Errorf("%w: unknown event kind %q", ErrBadRequest, payload.Event)
	}

	ident, err := i.resolveIdent(ctx, payload)
	if err != nil {
		return nil, err
	}

	if dup := i.seenDelivery(ctx, payload.DeliveryID); dup {
		i.logger.Info("Duplicate delivery acknowledged without store write",
			"ident", ident, "deliveryId", payload.DeliveryID)
		return &IngestResult{Duplicate: true}, nil
	}

	receivedAt := i.clock.Next(ident)
	event := &entity.StatusEvent{
		Ident:           ident,
		Kind:            entity.EventKind(payload.Event),
		Aircraft:        payload.Aircraft,
		Origin:          payload.Origin,
		Destination:     payload.Destination,
		SourceTimestamp: utils.ParseProviderTimestamp(payload.Timestamp),
		ReceivedAt:      receivedAt.Format(entity.ReceivedAtLayout),
		RawPayload:      string(rawBody),
	}
	if i.eventTTL > 0 {
		expireAt := receivedAt.Add(i.eventTTL)
		event.ExpireAt = &expireAt
	}

	if err := i.eventRepo.Append(ctx, event); err != nil {
		return nil, err
	}

	return &IngestResult{Event: event}, nil
}

// resolveIdent picks the flight identifier from the payload: an explicit
// ident wins, otherwise the ident segment of a provider fa_flight_id. The
// aircraft registry canonicalizes provider spellings when it knows the ident.
func (i *EventIngestor) resolveIdent(ctx context.Context, payload WebhookPayload) (string, error) {
	ident := utils.NormalizeTailToken(payload.Ident)
	if ident == "" {
		ident = utils.IdentFromFaFlightID(payload.FaFlightID)
	}
	if ident == "" {
		return "", fmt.Errorf("%w: missing ident and fa_flight_id", ErrBadRequest)
	}

	if i.aircraftRepo != nil {
		aircraft, err := i.aircraftRepo.GetByProviderIdent(ctx, ident)
		switch {
		case err == nil && aircraft.Registration != "":
			ident = aircraft.Registration
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			i.logger.Warn("Aircraft registry lookup failed, keeping provider ident",
				"ident", ident, "error", err)
		}
	}
	return ident, nil
}

// seenDelivery reports whether the provider already delivered this id within
// the cache window. Cache failures count as unseen: at-least-once storage with
// reconciliation-level idempotence is the safety net.
func (i *EventIngestor) seenDelivery(ctx context.Context, deliveryID string) bool {
	if i.deliveryCache == nil || deliveryID == "" {
		return false
	}
	fresh, err := i.deliveryCache.Remember(ctx, deliveryID, i.cacheTTL)
	if err != nil {
		i.logger.Warn("Delivery cache unavailable, treating delivery as new", "error", err)
		return false
	}
	return !fresh
}
