package order

import (
	"time"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/orderitem"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how the customer pays. Only cash on delivery is supported.
type PaymentMethod string

const PaymentCashOnDelivery PaymentMethod = "cod"

// Order represents a placed customer order.
type Order struct {
	ID            int64                 `json:"_id"`
	Code          string                `json:"orderId"`
	UserID        *uuid.UUID            `json:"user,omitempty"`
	CustomerName  string                `json:"customerName"`
	Phone         string                `json:"phone"`
	Address       string                `json:"address"`
	Items         []orderitem.OrderItem `json:"items"`
	TotalAmount   decimal.Decimal       `json:"totalAmount"`
	Status        Status                `json:"status"`
	NextStatus    *Status               `json:"nextStatus,omitempty"`
	PaymentMethod PaymentMethod         `json:"paymentMethod"`
	Notes         string                `json:"notes,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// WithNextStatus fills the advisory NextStatus field.
func (o Order) WithNextStatus() Order {
	o.NextStatus = nil
	if next, ok := o.Status.Next(); ok {
		o.NextStatus = &next
	}

	return o
}
