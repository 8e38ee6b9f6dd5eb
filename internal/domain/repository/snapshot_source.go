package repository

import (
	"context"

	"flightwatch-service/internal/domain/entity"
)

// SnapshotSource produces the current flight roster. Implementations return
// ErrSourceUnavailable-wrapped errors when the upstream cannot be reached so
// the reconciler can skip the cycle and keep its previous published state.
type SnapshotSource interface {
	FetchSnapshot(ctx context.Context) (*entity.ScheduleSnapshot, error)
}
