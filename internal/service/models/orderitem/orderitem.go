package orderitem

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is a line item snapshotted at order time.
// It is decoupled from later catalogue changes.
type OrderItem struct {
	ID          int64           `json:"-"`
	OrderID     int64           `json:"-"`
	Position    int             `json:"-"`
	ProductID   uuid.UUID       `json:"product"`
	ProductName string          `json:"productName"`
	Weight      string          `json:"weight"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// Subtotal is price times quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total sums the subtotals of items.
func Total(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}

	return total
}
