// Package checkout mengubah keranjang sesi menjadi satu baris pesanan plus
// instruksi pembayaran per penjual.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/pasarkirana/marketplace/internal/cart"
	"github.com/pasarkirana/marketplace/internal/kafka"
	"github.com/pasarkirana/marketplace/internal/market"
)

// Jam pembuatan pesanan selalu ditulis dalam zona waktu target.
var jakarta = mustLoadJakarta()

func mustLoadJakarta() *time.Location {
	if loc, err := time.LoadLocation("Asia/Jakarta"); err == nil {
		return loc
	}
	return time.FixedZone("WIB", 7*60*60)
}

type OrderInserter interface {
	Insert(ctx context.Context, o market.Order) error
}

type CartClearer interface {
	Clear(ctx context.Context, sessionID string) error
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Service struct {
	Orders   OrderInserter
	Carts    CartClearer
	Producer Publisher
	Service  string
	Now      func() time.Time // nil = time.Now
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().In(jakarta)
	}
	return time.Now().In(jakarta)
}

// ValidateContact menerima nomor HP digit-only berawalan kode negara 62,
// panjang 11-13 digit. "08123456789" ditolak, "6281234567890" lolos.
func ValidateContact(contact string) error {
	if len(contact) < 11 || len(contact) > 13 {
		return fmt.Errorf("%w: nomor HP harus 11-13 digit", market.ErrValidation)
	}
	for _, r := range contact {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: nomor HP hanya boleh angka", market.ErrValidation)
		}
	}
	if !strings.HasPrefix(contact, "62") {
		return fmt.Errorf("%w: nomor HP harus diawali kode negara 62", market.ErrValidation)
	}
	return nil
}

// PlaceOrder memvalidasi input, menulis satu baris pesanan (append tunggal,
// status Baru), lalu mengosongkan keranjang sesi. Kalau penulisan gagal,
// keranjang dibiarkan utuh supaya pembeli bisa coba lagi.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, c cart.Cart, customerName, customerContact string) (market.Order, cart.Totals, error) {
	if c.Empty() {
		return market.Order{}, cart.Totals{}, fmt.Errorf("%w: keranjang masih kosong", market.ErrValidation)
	}
	if strings.TrimSpace(customerName) == "" {
		return market.Order{}, cart.Totals{}, fmt.Errorf("%w: nama pembeli wajib diisi", market.ErrValidation)
	}
	if err := ValidateContact(customerContact); err != nil {
		return market.Order{}, cart.Totals{}, err
	}

	totals := cart.ComputeTotals(c)
	o := market.Order{
		OrderID:         market.NewID(market.PrefixOrder),
		CustomerName:    strings.TrimSpace(customerName),
		CustomerContact: customerContact,
		OrderDetails:    c.Lines,
		TotalPrice:      totals.TotalPrice,
		OrderStatus:     market.StatusBaru,
		CreatedAt:       s.now(),
	}

	if err := s.Orders.Insert(ctx, o); err != nil {
		// keranjang tidak di-clear; user bisa submit ulang
		return market.Order{}, cart.Totals{}, fmt.Errorf("%w: %v", market.ErrDependency, err)
	}

	if s.Carts != nil {
		// pesanan sudah tersimpan; keranjang yang gagal ke-clear bukan
		// alasan untuk menggagalkan checkout
		_ = s.Carts.Clear(ctx, sessionID)
	}

	s.publishCreated(o, totals)
	return o, totals, nil
}

func (s *Service) publishCreated(o market.Order, totals cart.Totals) {
	if s.Producer == nil {
		return
	}
	ev := market.Envelope{
		EventID:       uuid.NewString(),
		EventType:     market.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.Service,
		CorrelationID: o.OrderID,
		Payload: kafka.MustMarshal(market.OrderCreatedPayload{
			OrderID:      o.OrderID,
			CustomerName: o.CustomerName,
			Lines:        o.OrderDetails,
			TotalPrice:   o.TotalPrice,
			VendorTotals: totals.VendorTotals,
		}),
	}
	s.Producer.Publish(market.PartitionKey(o.OrderID), kafka.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(market.EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
