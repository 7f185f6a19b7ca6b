// Package catalog menyajikan katalog shopper lewat cache read-through
// ber-TTL; cache di-invalidate manual setiap ada tulisan produk/penjual.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pasarkirana/marketplace/internal/market"
	"github.com/pasarkirana/marketplace/internal/redisx"
)

type Lister interface {
	ListVisible(ctx context.Context) ([]market.CatalogItem, error)
}

// Cache adalah potongan kecil dari client Redis yang dibutuhkan katalog;
// dibikin interface supaya bisa difake di test.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type Service struct {
	Products Lister
	Cache    Cache
	TTL      time.Duration
}

func (s *Service) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return redisx.TTLCatalog
}

// List mengembalikan katalog, dari cache kalau masih fresh. Shopper yang
// datang bersamaan bisa melihat data basi maksimal selebar TTL; itu memang
// trade-off yang diambil.
func (s *Service) List(ctx context.Context) ([]market.CatalogItem, error) {
	if s.Cache != nil {
		if raw, ok, err := s.Cache.Get(ctx, redisx.KeyCatalog); err == nil && ok {
			var items []market.CatalogItem
			if err := json.Unmarshal([]byte(raw), &items); err == nil {
				return items, nil
			}
			// cache korup: buang lalu jatuh ke DB
			_ = s.Cache.Del(ctx, redisx.KeyCatalog)
		}
	}

	items, err := s.Products.ListVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", market.ErrDependency, err)
	}

	if s.Cache != nil {
		if b, err := json.Marshal(items); err == nil {
			_ = s.Cache.Set(ctx, redisx.KeyCatalog, string(b), s.ttl())
		}
	}
	return items, nil
}

// Invalidate dipanggil setelah tulisan produk/penjual supaya pembaca
// berikutnya dapat data segar.
func (s *Service) Invalidate(ctx context.Context) {
	if s.Cache != nil {
		_ = s.Cache.Del(ctx, redisx.KeyCatalog)
	}
}
