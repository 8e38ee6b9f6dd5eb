package repository

import (
	"context"
	"time"

	"flightwatch-service/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

// RedisDeliveryCache implements DeliveryCache on a short-TTL Redis key per
// provider delivery id.
type RedisDeliveryCache struct {
	client *redis.Client
}

// NewRedisDeliveryCache creates a new delivery cache
func NewRedisDeliveryCache(client *redis.Client) repository.DeliveryCache {
	return &RedisDeliveryCache{
		client: client,
	}
}

// Remember records the delivery id and reports whether it was new. SET NX
// keeps the check-and-set atomic across concurrent deliveries.
func (c *RedisDeliveryCache) Remember(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, "delivery:"+deliveryID, 1, ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}
