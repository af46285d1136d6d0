package orderitem_test

import (
	"testing"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/orderitem"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTotal(t *testing.T) {
	items := []orderitem.OrderItem{
		{Weight: "500g", Price: decimal.NewFromInt(350), Quantity: 2},
		{Weight: "250g", Price: decimal.RequireFromString("80.50"), Quantity: 3},
	}

	assert.True(t, decimal.RequireFromString("941.50").Equal(orderitem.Total(items)))
	assert.True(t, decimal.Zero.Equal(orderitem.Total(nil)))
}
