// Package worker memproses event order.created di belakang API: dedup,
// pengurangan stok best-effort, dan refresh cache status pesanan.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/pasarkirana/marketplace/internal/kafka"
	"github.com/pasarkirana/marketplace/internal/market"
	"github.com/pasarkirana/marketplace/internal/redisx"
)

type StockDecrementer interface {
	DecrementStock(ctx context.Context, items map[string]int) error
}

// Dedup menandai event yang sudah pernah diproses.
type Dedup interface {
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string, ttl time.Duration) error
}

type StatusCache interface {
	SetStatus(ctx context.Context, orderID string, status market.OrderStatus, ttl time.Duration) error
}

type Service struct {
	Products    StockDecrementer
	Dedup       Dedup
	StatusCache StatusCache
	ServiceName string
}

// HandleOrderCreated dipasang sebagai handler consumer. Return nil berarti
// offset boleh di-commit.
func (s *Service) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	var env market.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// pesan rusak tidak akan pernah berhasil; commit saja
		log.Warn().Err(err).Msg("skip malformed event")
		return nil
	}
	if env.EventType != market.EventOrderCreated {
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if seen, _ := s.Dedup.Seen(ctx, dkey); seen {
		return nil
	}

	p, err := kafka.UnwrapPayload[market.OrderCreatedPayload](env.Payload)
	if err != nil {
		log.Warn().Err(err).Str("event_id", env.EventID).Msg("skip malformed payload")
		return nil
	}

	items := make(map[string]int, len(p.Lines))
	for _, l := range p.Lines {
		items[l.ProductID] += l.Quantity
	}
	if err := s.Products.DecrementStock(ctx, items); err != nil {
		return fmt.Errorf("decrement stock for %s: %w", p.OrderID, err)
	}

	if s.StatusCache != nil {
		_ = s.StatusCache.SetStatus(ctx, p.OrderID, market.StatusBaru, redisx.TTLStatusCache)
	}

	_ = s.Dedup.Mark(ctx, dkey, redisx.TTLDedup)
	log.Info().Str("order_id", p.OrderID).Int("products", len(items)).Msg("stock adjusted")
	return nil
}
