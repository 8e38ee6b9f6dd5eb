package usecase

import (
	"context"
	"time"

	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/pkg/logger"
	"flightwatch-service/pkg/metrics"
)

// EventPruner removes expired status events in the background. The repository
// guards the latest event of each kind, so a flight never loses its only
// known state.
type EventPruner struct {
	eventRepo repository.StatusEventRepository
	interval  time.Duration
	metrics   *metrics.Metrics
	logger    logger.Logger
}

// NewEventPruner creates a new event pruner
func NewEventPruner(eventRepo repository.StatusEventRepository, interval time.Duration, metrics *metrics.Metrics, logger logger.Logger) *EventPruner {
	return &EventPruner{
		eventRepo: eventRepo,
		interval:  interval,
		metrics:   metrics,
		logger:    logger,
	}
}

// Start runs prune passes on the configured cadence until the context is
// cancelled.
func (p *EventPruner) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Event pruner stopped")
			return
		case <-ticker.C:
			removed, err := p.eventRepo.PruneExpired(ctx, time.Now().UTC())
			if err != nil {
				p.logger.Error("Prune pass failed", "error", err)
				continue
			}
			if removed > 0 {
				p.metrics.EventsPruned.Add(float64(removed))
				p.logger.Info("Pruned expired events", "removed", removed)
			}
		}
	}
}
