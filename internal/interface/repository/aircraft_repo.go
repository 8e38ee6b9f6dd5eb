package repository

import (
	"context"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAircraftRepository implements the AircraftRepository interface
type GormAircraftRepository struct {
	db *gorm.DB
}

// NewGormAircraftRepository creates a new GORM aircraft repository
func NewGormAircraftRepository(db *gorm.DB) repository.AircraftRepository {
	return &GormAircraftRepository{
		db: db,
	}
}

// Aircrafts GORM model for database mapping
type Aircrafts struct {
	gorm.Model
	ID            uint           `gorm:"primaryKey"`
	ProviderIdent string         `gorm:"column:provider_ident;unique"`
	Registration  string         `gorm:"column:registration"`
	AircraftType  string         `gorm:"column:aircraft_type"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName overrides the default table name
func (Aircrafts) TableName() string {
	return "m_aircraft"
}

// GetByProviderIdent finds an aircraft by the ident the provider reports
func (r *GormAircraftRepository) GetByProviderIdent(ctx context.Context, ident string) (*entity.Aircraft, error) {
	var aircraft Aircrafts
	result := r.db.WithContext(ctx).Where("provider_ident = ?", ident).First(&aircraft)

	if result.Error != nil {
		return nil, result.Error
	}

	// Convert GORM model to domain entity
	return &entity.Aircraft{
		ID:            aircraft.ID,
		ProviderIdent: aircraft.ProviderIdent,
		Registration:  aircraft.Registration,
		AircraftType:  aircraft.AircraftType,
		CreatedAt:     aircraft.CreatedAt,
		UpdatedAt:     aircraft.UpdatedAt,
		DeletedAt:     aircraft.DeletedAt,
	}, nil
}
