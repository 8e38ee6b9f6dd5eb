package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"
)

// fakeEventRepo is an in-memory StatusEventRepository with the same key
// semantics as the Mongo implementation: idempotent on (ident, receivedAt),
// ties broken by insertion order.
type fakeEventRepo struct {
	mu         sync.Mutex
	events     []entity.StatusEvent
	failIdents map[string]bool
	appendErr  error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{failIdents: make(map[string]bool)}
}

func (f *fakeEventRepo) Append(ctx context.Context, event *entity.StatusEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	for _, existing := range f.events {
		if existing.Ident == event.Ident && existing.ReceivedAt == event.ReceivedAt {
			return nil
		}
	}
	if event.ID == "" {
		event.ID = fmt.Sprintf("evt-%d", len(f.events))
	}
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeEventRepo) LatestEvents(ctx context.Context, ident string) (map[entity.EventKind]entity.StatusEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIdents[ident] {
		return nil, fmt.Errorf("%w: injected failure", repository.ErrStoreUnavailable)
	}
	latest := make(map[entity.EventKind]entity.StatusEvent)
	for _, event := range f.events {
		if event.Ident != ident {
			continue
		}
		current, ok := latest[event.Kind]
		if !ok || event.ReceivedAt >= current.ReceivedAt {
			latest[event.Kind] = event
		}
	}
	return latest, nil
}

func (f *fakeEventRepo) History(ctx context.Context, ident string) ([]entity.StatusEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.StatusEvent
	for i := len(f.events) - 1; i >= 0; i-- {
		if f.events[i].Ident == ident {
			out = append(out, f.events[i])
		}
	}
	return out, nil
}

func (f *fakeEventRepo) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keep := make(map[string]bool)
	byKey := make(map[string]entity.StatusEvent)
	for _, event := range f.events {
		key := event.Ident + "|" + string(event.Kind)
		current, ok := byKey[key]
		if !ok || event.ReceivedAt >= current.ReceivedAt {
			byKey[key] = event
		}
	}
	for _, event := range byKey {
		keep[event.ID] = true
	}

	var kept []entity.StatusEvent
	var removed int64
	for _, event := range f.events {
		expired := event.ExpireAt != nil && !event.ExpireAt.After(now)
		if expired && !keep[event.ID] {
			removed++
			continue
		}
		kept = append(kept, event)
	}
	f.events = kept
	return removed, nil
}

func (f *fakeEventRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

// fakeSnapshotSource returns a fixed snapshot or error per call.
type fakeSnapshotSource struct {
	mu       sync.Mutex
	snapshot *entity.ScheduleSnapshot
	err      error
}

func (f *fakeSnapshotSource) FetchSnapshot(ctx context.Context) (*entity.ScheduleSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

func (f *fakeSnapshotSource) set(snapshot *entity.ScheduleSnapshot, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot = snapshot
	f.err = err
}

// fakeDeliveryCache remembers ids in a map, no expiry.
type fakeDeliveryCache struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func newFakeDeliveryCache() *fakeDeliveryCache {
	return &fakeDeliveryCache{seen: make(map[string]bool)}
}

func (f *fakeDeliveryCache) Remember(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.seen[deliveryID] {
		return false, nil
	}
	f.seen[deliveryID] = true
	return true, nil
}
