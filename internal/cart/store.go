package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pasarkirana/marketplace/internal/redisx"
)

// Store menyimpan keranjang per session id di Redis. Keranjang hanya milik
// satu sesi shopper, tidak pernah dishare antar user.
type Store struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = redisx.TTLCart
	}
	return &Store{RDB: rdb, TTL: ttl}
}

// Load mengambil keranjang sesi; sesi tanpa keranjang dapat keranjang kosong.
func (s *Store) Load(ctx context.Context, sessionID string) (Cart, error) {
	key := fmt.Sprintf(redisx.KeyCart, sessionID)
	raw, err := s.RDB.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return Cart{}, nil
	}
	if err != nil {
		return Cart{}, fmt.Errorf("load cart: %w", err)
	}
	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	return c, nil
}

func (s *Store) Save(ctx context.Context, sessionID string, c Cart) error {
	key := fmt.Sprintf(redisx.KeyCart, sessionID)
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.RDB.Set(ctx, key, b, s.TTL).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf(redisx.KeyCart, sessionID)
	if err := s.RDB.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
