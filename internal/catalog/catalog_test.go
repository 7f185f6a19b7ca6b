package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasarkirana/marketplace/internal/market"
	"github.com/pasarkirana/marketplace/internal/redisx"
)

type fakeLister struct {
	items []market.CatalogItem
	calls int
	fail  error
}

func (f *fakeLister) ListVisible(context.Context) ([]market.CatalogItem, error) {
	f.calls++
	if f.fail != nil {
		return nil, f.fail
	}
	return f.items, nil
}

type fakeCache struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	f.data[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeCache) Del(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func sampleItems() []market.CatalogItem {
	return []market.CatalogItem{
		{Product: market.Product{ProductID: "P1", VendorID: "V1", ProductName: "Kopi", Price: 15000, IsActive: true}, VendorName: "Warung Bu Sri"},
	}
}

func TestListReadThrough(t *testing.T) {
	lister := &fakeLister{items: sampleItems()}
	cache := newFakeCache()
	svc := &Service{Products: lister, Cache: cache, TTL: 10 * time.Minute}
	ctx := context.Background()

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleItems(), got)
	assert.Equal(t, 1, lister.calls)
	assert.Equal(t, 10*time.Minute, cache.ttls[redisx.KeyCatalog])

	// panggilan kedua dilayani cache, DB tidak disentuh lagi
	got, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleItems(), got)
	assert.Equal(t, 1, lister.calls)
}

func TestInvalidateForcesRefresh(t *testing.T) {
	lister := &fakeLister{items: sampleItems()}
	svc := &Service{Products: lister, Cache: newFakeCache()}
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	svc.Invalidate(ctx)

	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, lister.calls)
}

func TestCorruptCacheFallsBack(t *testing.T) {
	lister := &fakeLister{items: sampleItems()}
	cache := newFakeCache()
	cache.data[redisx.KeyCatalog] = "{bukan json valid"
	svc := &Service{Products: lister, Cache: cache}

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleItems(), got)
	assert.Equal(t, 1, lister.calls)
}

func TestListerFailureIsDependencyError(t *testing.T) {
	lister := &fakeLister{fail: errors.New("connection refused")}
	svc := &Service{Products: lister, Cache: newFakeCache()}

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, market.ErrDependency)
}

func TestListWithoutCache(t *testing.T) {
	lister := &fakeLister{items: sampleItems()}
	svc := &Service{Products: lister}

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleItems(), got)
}
