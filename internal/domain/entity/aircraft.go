package entity

import (
	"time"

	"gorm.io/gorm"
)

// Aircraft is reference data mapping provider idents to the canonical
// registration used as the event partition key.
type Aircraft struct {
	ID            uint
	ProviderIdent string
	Registration  string
	AircraftType  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt
}
