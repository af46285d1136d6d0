package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Routing keys of published order events.
const (
	EventPlaced        = "order.placed"
	EventStatusChanged = "order.status_changed"
)

// Event is the payload published for order lifecycle changes.
type Event struct {
	Type           string          `json:"type"`
	OrderID        int64           `json:"orderDbId"`
	OrderCode      string          `json:"orderId"`
	Phone          string          `json:"phone"`
	Status         Status          `json:"status"`
	PreviousStatus Status          `json:"previousStatus,omitempty"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	OccurredAt     time.Time       `json:"occurredAt"`
}
