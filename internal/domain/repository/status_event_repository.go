package repository

import (
	"context"
	"time"

	"flightwatch-service/internal/domain/entity"
)

// StatusEventRepository defines the interface for status event persistence.
// Append is idempotent on the (ident, receivedAt) key: re-inserting an already
// accepted event succeeds without creating a second row.
type StatusEventRepository interface {
	Append(ctx context.Context, event *entity.StatusEvent) error
	LatestEvents(ctx context.Context, ident string) (map[entity.EventKind]entity.StatusEvent, error)
	History(ctx context.Context, ident string) ([]entity.StatusEvent, error)
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}
