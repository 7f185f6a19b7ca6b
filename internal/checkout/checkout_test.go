package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasarkirana/marketplace/internal/cart"
	"github.com/pasarkirana/marketplace/internal/market"
)

type fakeOrders struct {
	inserted []market.Order
	fail     error
}

func (f *fakeOrders) Insert(_ context.Context, o market.Order) error {
	if f.fail != nil {
		return f.fail
	}
	f.inserted = append(f.inserted, o)
	return nil
}

type fakeCarts struct{ cleared []string }

func (f *fakeCarts) Clear(_ context.Context, sessionID string) error {
	f.cleared = append(f.cleared, sessionID)
	return nil
}

type fakePublisher struct{ messages [][]byte }

func (f *fakePublisher) Publish(_, value []byte, _ ...kafkago.Header) {
	f.messages = append(f.messages, value)
}

func testCart() cart.Cart {
	return cart.Cart{Lines: []cart.Line{
		{ProductID: "A", ProductName: "Kopi", Price: 10000, Quantity: 2, VendorID: "V1"},
		{ProductID: "B", ProductName: "Roti", Price: 5000, Quantity: 1, VendorID: "V1"},
		{ProductID: "C", ProductName: "Keripik", Price: 7000, Quantity: 1, VendorID: "V2"},
	}}
}

func newService() (*Service, *fakeOrders, *fakeCarts, *fakePublisher) {
	orders := &fakeOrders{}
	carts := &fakeCarts{}
	pub := &fakePublisher{}
	svc := &Service{Orders: orders, Carts: carts, Producer: pub, Service: "test-api"}
	return svc, orders, carts, pub
}

func TestPlaceOrderEmptyCartFails(t *testing.T) {
	svc, orders, carts, _ := newService()

	_, _, err := svc.PlaceOrder(context.Background(), "sid", cart.Cart{}, "Budi", "6281234567890")
	require.ErrorIs(t, err, market.ErrValidation)
	assert.Empty(t, orders.inserted, "tidak boleh ada baris yang ditulis")
	assert.Empty(t, carts.cleared)
}

func TestPlaceOrderBlankNameFails(t *testing.T) {
	svc, orders, _, _ := newService()

	_, _, err := svc.PlaceOrder(context.Background(), "sid", testCart(), "   ", "6281234567890")
	require.ErrorIs(t, err, market.ErrValidation)
	assert.Empty(t, orders.inserted)
}

func TestValidateContact(t *testing.T) {
	cases := []struct {
		contact string
		ok      bool
	}{
		{"6281234567890", true},  // 13 digit, kode negara benar
		{"62812345678", true},    // 11 digit
		{"08123456789", false},   // tanpa kode negara
		{"62812345", false},      // terlalu pendek
		{"628123456789012", false}, // terlalu panjang
		{"62812345678a", false},  // bukan angka
		{"+6281234567890", false},
		{"", false},
	}
	for _, tc := range cases {
		err := ValidateContact(tc.contact)
		if tc.ok {
			assert.NoError(t, err, tc.contact)
		} else {
			assert.ErrorIs(t, err, market.ErrValidation, tc.contact)
		}
	}
}

func TestPlaceOrderSuccess(t *testing.T) {
	svc, orders, carts, pub := newService()
	c := testCart()

	o, totals, err := svc.PlaceOrder(context.Background(), "sid-1", c, "Budi", "6281234567890")
	require.NoError(t, err)

	assert.Equal(t, int64(32000), o.TotalPrice)
	assert.Equal(t, market.StatusBaru, o.OrderStatus)
	assert.Regexp(t, `^ORD-[0-9A-F]{6}$`, o.OrderID)
	assert.Equal(t, c.Lines, o.OrderDetails, "order_details harus snapshot keranjang")
	assert.Equal(t, int64(25000), totals.ByVendor("V1"))
	assert.Equal(t, int64(7000), totals.ByVendor("V2"))

	require.Len(t, orders.inserted, 1)
	assert.Equal(t, o.OrderID, orders.inserted[0].OrderID)
	assert.Equal(t, []string{"sid-1"}, carts.cleared)

	// event order.created harus terbit dengan payload lengkap
	require.Len(t, pub.messages, 1)
	var env market.Envelope
	require.NoError(t, json.Unmarshal(pub.messages[0], &env))
	assert.Equal(t, market.EventOrderCreated, env.EventType)
	assert.Equal(t, o.OrderID, env.CorrelationID)
	var payload market.OrderCreatedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, int64(32000), payload.TotalPrice)
	assert.Len(t, payload.Lines, 3)
}

func TestPlaceOrderCreatedAtJakarta(t *testing.T) {
	svc, orders, _, _ := newService()
	fixed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return fixed }

	_, _, err := svc.PlaceOrder(context.Background(), "sid", testCart(), "Budi", "6281234567890")
	require.NoError(t, err)

	created := orders.inserted[0].CreatedAt
	_, offset := created.Zone()
	assert.Equal(t, 7*60*60, offset, "created_at harus di zona WIB (+7)")
	assert.True(t, created.Equal(fixed))
}

func TestPlaceOrderPersistFailureKeepsCart(t *testing.T) {
	svc, orders, carts, pub := newService()
	orders.fail = errors.New("connection refused")

	_, _, err := svc.PlaceOrder(context.Background(), "sid", testCart(), "Budi", "6281234567890")
	require.ErrorIs(t, err, market.ErrDependency)
	assert.Empty(t, carts.cleared, "keranjang harus tetap utuh supaya bisa retry")
	assert.Empty(t, pub.messages, "tidak boleh ada event untuk order yang gagal")
}

func TestPlaceOrderTotalIsSnapshot(t *testing.T) {
	svc, orders, _, _ := newService()
	c := testCart()

	_, _, err := svc.PlaceOrder(context.Background(), "sid", c, "Budi", "6281234567890")
	require.NoError(t, err)

	// harga produk berubah setelah order dibuat; total tersimpan tidak ikut
	c.Lines[0].Price = 99999
	assert.Equal(t, int64(32000), orders.inserted[0].TotalPrice)
}
