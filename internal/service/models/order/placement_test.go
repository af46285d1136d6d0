package order_test

import (
	"strings"
	"testing"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/order"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() order.PlaceOrderInput {
	return order.PlaceOrderInput{
		CustomerName: "Ravi",
		Phone:        "9876543210",
		Address:      "12 Market Road",
		Items: []order.PlaceOrderItem{
			{ProductID: uuid.NewString(), Weight: "500g", Quantity: 2},
		},
	}
}

func TestPlaceOrderInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *order.PlaceOrderInput)
		wantMsg string
	}{
		{name: "validate: ok", mutate: func(*order.PlaceOrderInput) {}},
		{
			name:    "validate: no items",
			mutate:  func(in *order.PlaceOrderInput) { in.Items = nil },
			wantMsg: "No order items provided",
		},
		{
			name:    "validate: empty items",
			mutate:  func(in *order.PlaceOrderInput) { in.Items = []order.PlaceOrderItem{} },
			wantMsg: "No order items provided",
		},
		{
			name:    "validate: zero quantity",
			mutate:  func(in *order.PlaceOrderInput) { in.Items[0].Quantity = 0 },
			wantMsg: "Quantity must be at least 1",
		},
		{
			name:    "validate: bad product id",
			mutate:  func(in *order.PlaceOrderInput) { in.Items[0].ProductID = "abc" },
			wantMsg: "Invalid product id",
		},
		{
			name:    "validate: long notes",
			mutate:  func(in *order.PlaceOrderInput) { in.Notes = strings.Repeat("n", 501) },
			wantMsg: "Notes cannot exceed 500 characters",
		},
		{
			name:    "validate: missing name",
			mutate:  func(in *order.PlaceOrderInput) { in.CustomerName = "" },
			wantMsg: "Customer name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := in.Validate()
			if tt.wantMsg == "" {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, errs.ErrValidation)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestOrderWithNextStatus(t *testing.T) {
	o := order.Order{Status: order.StatusCutting}.WithNextStatus()
	require.NotNil(t, o.NextStatus)
	assert.Equal(t, order.StatusOutForDelivery, *o.NextStatus)

	o = order.Order{Status: order.StatusCancelled}.WithNextStatus()
	assert.Nil(t, o.NextStatus)
}
