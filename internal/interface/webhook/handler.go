package webhook

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/internal/usecase"
	"flightwatch-service/pkg/logger"
	"flightwatch-service/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// Handler terminates the provider webhook boundary: shared-token auth, body
// normalization via the ingestor, and translation of the error taxonomy into
// HTTP status codes. Errors never propagate past this boundary.
type Handler struct {
	ingestor     *usecase.EventIngestor
	reconciler   *usecase.Reconciler
	eventRepo    repository.StatusEventRepository
	token        string
	storeTimeout time.Duration
	metrics      *metrics.Metrics
	logger       logger.Logger
}

// NewHandler creates a new webhook handler
func NewHandler(
	ingestor *usecase.EventIngestor,
	reconciler *usecase.Reconciler,
	eventRepo repository.StatusEventRepository,
	token string,
	storeTimeout time.Duration,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *Handler {
	return &Handler{
		ingestor:     ingestor,
		reconciler:   reconciler,
		eventRepo:    eventRepo,
		token:        token,
		storeTimeout: storeTimeout,
		metrics:      metrics,
		logger:       logger,
	}
}

// HandleFlightEvent accepts one provider delivery. Auth is checked before the
// body is read; nothing reaches the store on a bad token. The store write is
// the only blocking point and is bounded by the configured timeout, after
// which the provider gets a retryable failure.
func (h *Handler) HandleFlightEvent(c echo.Context) error {
	if h.token == "" || c.QueryParam("token") != h.token {
		h.metrics.WebhookRejected.WithLabelValues("unauthorized").Inc()
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.metrics.WebhookRejected.WithLabelValues("bad_request").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.storeTimeout)
	defer cancel()

	result, err := h.ingestor.Ingest(ctx, body)
	if err != nil {
		if errors.Is(err, usecase.ErrBadRequest) {
			h.metrics.WebhookRejected.WithLabelValues("bad_request").Inc()
			h.logger.Warn("Rejected malformed webhook delivery", "error", err, "body", string(body))
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		// Everything else is a transient persistence failure; the provider's
		// own retry mechanism resubmits.
		h.metrics.WebhookRejected.WithLabelValues("store_unavailable").Inc()
		h.logger.Error("Store write failed, asking provider to retry", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "store unavailable"})
	}

	if result.Duplicate {
		h.metrics.DuplicateDelivery.Inc()
	} else {
		h.metrics.EventsIngested.Inc()
		h.logger.Info("Stored status event",
			"ident", result.Event.Ident, "kind", result.Event.Kind, "receivedAt", result.Event.ReceivedAt)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// HandleReconciledState serves the pull-style query interface consumed by
// presentation. Callers compare the digest to decide whether to re-render.
func (h *Handler) HandleReconciledState(c echo.Context) error {
	states, digest := h.reconciler.GetReconciledState()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"digest":  digest,
		"flights": states,
	})
}

// HandleEventHistory serves the audit trail for one identifier, newest first.
func (h *Handler) HandleEventHistory(c echo.Context) error {
	ident := c.Param("ident")
	events, err := h.eventRepo.History(c.Request().Context(), ident)
	if err != nil {
		h.logger.Error("History lookup failed", "ident", ident, "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "store unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"ident":  ident,
		"events": events,
	})
}
