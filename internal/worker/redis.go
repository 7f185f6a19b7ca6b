package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pasarkirana/marketplace/internal/market"
	"github.com/pasarkirana/marketplace/internal/redisx"
)

// RedisDedup dan RedisStatusCache: implementasi Redis untuk interface worker.
type RedisDedup struct{ RDB *redis.Client }

func (d RedisDedup) Seen(ctx context.Context, key string) (bool, error) {
	return redisx.Exists(ctx, d.RDB, key)
}

func (d RedisDedup) Mark(ctx context.Context, key string, ttl time.Duration) error {
	return d.RDB.Set(ctx, key, "1", ttl).Err()
}

type RedisStatusCache struct{ RDB *redis.Client }

func (c RedisStatusCache) SetStatus(ctx context.Context, orderID string, status market.OrderStatus, ttl time.Duration) error {
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	return c.RDB.Set(ctx, key, fmt.Sprintf(`{"status":%q}`, status), ttl).Err()
}
