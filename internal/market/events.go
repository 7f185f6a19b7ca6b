package market

import (
	"encoding/json"
	"time"

	"github.com/pasarkirana/marketplace/internal/cart"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // biasanya order_id
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID      string             `json:"order_id"`
	CustomerName string             `json:"customer_name"`
	Lines        []cart.Line        `json:"lines"`
	TotalPrice   int64              `json:"total_price"`
	VendorTotals []cart.VendorTotal `json:"vendor_totals"`
}

type OrderStatusChangedPayload struct {
	OrderID   string      `json:"order_id"`
	VendorID  string      `json:"vendor_id"`
	NewStatus OrderStatus `json:"new_status"`
}
