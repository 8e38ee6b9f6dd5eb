package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIngestClockStrictlyIncreasing(t *testing.T) {
	t.Parallel()

	clock := NewIngestClock()
	previous := clock.Next("C-GXYZ")
	for i := 0; i < 1000; i++ {
		next := clock.Next("C-GXYZ")
		require.True(t, next.After(previous), "receivedAt must be strictly increasing per ident")
		previous = next
	}
}

func TestIngestClockConcurrent(t *testing.T) {
	t.Parallel()

	clock := NewIngestClock()
	const workers = 8
	const perWorker = 200

	var mu sync.Mutex
	seen := make(map[string]bool)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				stamp := clock.Next("C-GXYZ").Format(entity.ReceivedAtLayout)
				mu.Lock()
				seen[stamp] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker, "concurrent deliveries must never collide on receivedAt")
}

func TestIngestClockIndependentPerIdent(t *testing.T) {
	t.Parallel()

	clock := NewIngestClock()
	a := clock.Next("C-GXYZ")
	b := clock.Next("C-FABC")
	assert.NotEqual(t, "", a.Format(entity.ReceivedAtLayout))
	assert.NotEqual(t, "", b.Format(entity.ReceivedAtLayout))
}

func TestIngestValidDelivery(t *testing.T) {
	t.Parallel()

	repo := newFakeEventRepo()
	ingestor := NewEventIngestor(repo, nil, nil, 72*time.Hour, 0, logger.NewNop())

	body := []byte(`{"event":"off","ident":"ASP501","aircraft":"C-GXYZ","origin":"CYUL","destination":"KBOS","timestamp":"2025-10-06T18:00:00Z"}`)
	result, err := ingestor.Ingest(context.Background(), body)
	require.NoError(t, err)
	require.NotNil(t, result.Event)
	assert.False(t, result.Duplicate)

	event := result.Event
	assert.Equal(t, "ASP501", event.Ident)
	assert.Equal(t, entity.EventOff, event.Kind)
	assert.Equal(t, "CYUL", event.Origin)
	assert.Equal(t, "KBOS", event.Destination)
	assert.Equal(t, string(body), event.RawPayload, "raw payload must be preserved verbatim")
	require.NotNil(t, event.SourceTimestamp)
	assert.Equal(t, time.Date(2025, 10, 6, 18, 0, 0, 0, time.UTC), event.SourceTimestamp.UTC())
	require.NotNil(t, event.ExpireAt)
	assert.Equal(t, 1, repo.count())
}

func TestIngestRejectsMalformedPayloads(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"event":"off"`},
		{"unknown kind", `{"event":"teleport","ident":"ASP501"}`},
		{"missing ident", `{"event":"off"}`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := newFakeEventRepo()
			ingestor := NewEventIngestor(repo, nil, nil, 0, 0, logger.NewNop())

			_, err := ingestor.Ingest(context.Background(), []byte(tt.body))
			require.ErrorIs(t, err, ErrBadRequest)
			assert.Zero(t, repo.count(), "rejected deliveries must not reach the store")
		})
	}
}

func TestIngestResolvesFaFlightID(t *testing.T) {
	t.Parallel()

	repo := newFakeEventRepo()
	ingestor := NewEventIngestor(repo, nil, nil, 0, 0, logger.NewNop())

	body := []byte(`{"event":"on","fa_flight_id":"CGXYZ-1759773600-adhoc-0"}`)
	result, err := ingestor.Ingest(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, "C-GXYZ", result.Event.Ident)
}

type fakeAircraftRepo struct {
	byIdent map[string]*entity.Aircraft
}

func (f *fakeAircraftRepo) GetByProviderIdent(ctx context.Context, ident string) (*entity.Aircraft, error) {
	if aircraft, ok := f.byIdent[ident]; ok {
		return aircraft, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestIngestCanonicalizesIdentViaRegistry(t *testing.T) {
	t.Parallel()

	registry := &fakeAircraftRepo{byIdent: map[string]*entity.Aircraft{
		"GXYZ": {ProviderIdent: "GXYZ", Registration: "C-GXYZ"},
	}}
	repo := newFakeEventRepo()
	ingestor := NewEventIngestor(repo, registry, nil, 0, 0, logger.NewNop())

	result, err := ingestor.Ingest(context.Background(), []byte(`{"event":"out","ident":"GXYZ"}`))
	require.NoError(t, err)
	assert.Equal(t, "C-GXYZ", result.Event.Ident)

	// Unknown idents pass through as delivered.
	result, err = ingestor.Ingest(context.Background(), []byte(`{"event":"out","ident":"N123AB"}`))
	require.NoError(t, err)
	assert.Equal(t, "N123AB", result.Event.Ident)
}

func TestIngestDuplicateDeliveryID(t *testing.T) {
	t.Parallel()

	repo := newFakeEventRepo()
	cache := newFakeDeliveryCache()
	ingestor := NewEventIngestor(repo, nil, cache, 0, 5*time.Minute, logger.NewNop())

	body := []byte(`{"event":"off","ident":"ASP501","delivery_id":"dlv-1"}`)

	first, err := ingestor.Ingest(context.Background(), body)
	require.NoError(t, err)
	assert.False(t, first.Duplicate)
	assert.Equal(t, 1, repo.count())

	second, err := ingestor.Ingest(context.Background(), body)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, 1, repo.count(), "redelivery must not create a second row")
}

func TestIngestCacheFailureFallsBackToStore(t *testing.T) {
	t.Parallel()

	repo := newFakeEventRepo()
	cache := newFakeDeliveryCache()
	cache.err = context.DeadlineExceeded
	ingestor := NewEventIngestor(repo, nil, cache, 0, 5*time.Minute, logger.NewNop())

	result, err := ingestor.Ingest(context.Background(), []byte(`{"event":"off","ident":"ASP501","delivery_id":"dlv-1"}`))
	require.NoError(t, err)
	assert.False(t, result.Duplicate, "cache failure degrades to at-least-once, not rejection")
	assert.Equal(t, 1, repo.count())
}
