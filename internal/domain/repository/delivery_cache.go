package repository

import (
	"context"
	"time"
)

// DeliveryCache remembers provider delivery ids for a short window so a
// redelivered webhook can be acknowledged without a second store write.
// Remember returns true when the id was not seen before.
type DeliveryCache interface {
	Remember(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error)
}
