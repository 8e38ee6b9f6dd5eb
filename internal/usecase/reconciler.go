package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/pkg/logger"
	"flightwatch-service/pkg/metrics"
)

// Reconciler merges the latest roster snapshot with the most recent status
// events per flight and publishes the consolidated view. It is read-only with
// respect to the event store and runs independently of ingestion.
type Reconciler struct {
	source     repository.SnapshotSource
	eventRepo  repository.StatusEventRepository
	classifier *PhaseClassifier
	interval   time.Duration
	metrics    *metrics.Metrics
	logger     logger.Logger

	mu           sync.RWMutex
	published    []entity.ReconciledFlightState
	digest       string
	publishedSeq uint64
	nextSeq      uint64
}

// NewReconciler creates a new reconciler
func NewReconciler(
	source repository.SnapshotSource,
	eventRepo repository.StatusEventRepository,
	classifier *PhaseClassifier,
	interval time.Duration,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *Reconciler {
	return &Reconciler{
		source:     source,
		eventRepo:  eventRepo,
		classifier: classifier,
		interval:   interval,
		metrics:    metrics,
		logger:     logger,
	}
}

// Start runs reconciliation cycles on the configured cadence until the
// context is cancelled.
func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.RunCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Reconciler stopped")
			return
		case <-ticker.C:
			r.RunCycle(ctx)
		}
	}
}

// RunCycle fetches a snapshot, reconciles it against the event store and
// publishes the result. A failed snapshot fetch skips the cycle entirely; the
// previously published state remains the current answer. No error escapes the
// periodic task.
func (r *Reconciler) RunCycle(ctx context.Context) {
	started := time.Now()
	seq := r.claimSeq()

	snapshot, err := r.source.FetchSnapshot(ctx)
	if err != nil {
		r.metrics.SnapshotFailures.Inc()
		r.metrics.CyclesSkipped.Inc()
		if errors.Is(err, repository.ErrSourceUnavailable) {
			r.logger.Warn("Roster source unavailable, keeping previous reconciled state", "error", err)
		} else {
			r.logger.Error("Snapshot fetch failed, keeping previous reconciled state", "error", err)
		}
		return
	}

	states := r.Reconcile(ctx, snapshot)
	r.publish(seq, states)
	r.metrics.ReconcileDuration.Observe(time.Since(started).Seconds())
}

// Reconcile merges one snapshot with the event store. The snapshot is the
// authoritative membership set: flights absent from it never appear in the
// output no matter how many events are stored. A nil or empty snapshot yields
// an empty result, not an error. A store read failure for one identifier
// degrades that flight to "no events" and the cycle continues.
func (r *Reconciler) Reconcile(ctx context.Context, snapshot *entity.ScheduleSnapshot) []entity.ReconciledFlightState {
	if snapshot.FlightCount() == 0 {
		return []entity.ReconciledFlightState{}
	}

	now := time.Now().UTC()
	states := make([]entity.ReconciledFlightState, 0, len(snapshot.Legs))
	for _, leg := range snapshot.Legs {
		latest, err := r.eventRepo.LatestEvents(ctx, leg.Booking)
		if err != nil {
			r.logger.Warn("Event lookup failed, reconciling without events",
				"ident", leg.Booking, "error", err)
			latest = nil
		}

		states = append(states, entity.ReconciledFlightState{
			Ident:        leg.Booking,
			Phase:        r.classifier.Classify(leg, latest),
			Leg:          leg,
			LatestEvents: latest,
			LastUpdated:  now,
		})
	}

	// Stable ordering for digesting.
	sort.Slice(states, func(i, j int) bool {
		return states[i].Ident < states[j].Ident
	})
	return states
}

// GetReconciledState returns a copy of the published state and its digest.
func (r *Reconciler) GetReconciledState() ([]entity.ReconciledFlightState, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.ReconciledFlightState, 0, len(r.published))
	for _, state := range r.published {
		out = append(out, state.Clone())
	}
	return out, r.digest
}

func (r *Reconciler) claimSeq() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSeq++
	return r.nextSeq
}

// publish installs a cycle's output unless a later cycle already published.
// A superseded slow cycle is discarded so readers never move backwards.
func (r *Reconciler) publish(seq uint64, states []entity.ReconciledFlightState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq < r.publishedSeq {
		r.logger.Debug("Discarding superseded reconciliation cycle",
			"seq", seq, "publishedSeq", r.publishedSeq)
		return
	}

	previous := r.digest
	r.published = states
	r.digest = Digest(states)
	r.publishedSeq = seq

	if Changed(previous, r.digest) {
		r.logger.Info("Reconciled state changed",
			"flights", len(states), "digest", r.digest)
	}
}
