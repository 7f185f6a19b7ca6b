package redisx

import "time"

const (
	// Keranjang belanja per sesi shopper: cart:{session_id} -> JSON []CartLine
	KeyCart = "cart:%s"

	// Katalog gabungan product+vendor yang sudah difilter: catalog:v1
	KeyCatalog = "catalog:v1"

	// Cache status order: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing di worker: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	// TTLCatalog mengikuti cache data lama (600 detik); bisa dioverride via config.
	TTLCatalog     = 10 * time.Minute
	TTLCart        = 24 * time.Hour
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
