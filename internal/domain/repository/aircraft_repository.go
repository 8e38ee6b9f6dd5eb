package repository

import (
	"context"

	"flightwatch-service/internal/domain/entity"
)

// AircraftRepository defines the interface for aircraft reference lookups
type AircraftRepository interface {
	GetByProviderIdent(ctx context.Context, ident string) (*entity.Aircraft, error)
}
