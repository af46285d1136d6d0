package order

import (
	"strings"

	"github.com/corray333/backend-labs/meatshop/pkg/validate"
	"github.com/google/uuid"
)

// PlaceOrderItem requests quantity units of one product variant.
type PlaceOrderItem struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Weight    string `json:"weight"    validate:"required"`
	Quantity  int    `json:"quantity"  validate:"gte=1"`
}

// PlaceOrderInput is a customer's checkout request.
type PlaceOrderInput struct {
	CustomerName string           `json:"customerName" validate:"required,max=100"`
	Phone        string           `json:"phone"        validate:"required,max=20"`
	Address      string           `json:"address"      validate:"required,max=500"`
	Notes        string           `json:"notes"        validate:"max=500"`
	Items        []PlaceOrderItem `json:"items"        validate:"required,min=1,dive"`
	// UserID is set from the authenticated principal, never from the request body.
	UserID *uuid.UUID `json:"-"`
}

var placementMessages = validate.Messages{
	"customerName.required": "Customer name is required",
	"customerName.max":      "Customer name cannot exceed 100 characters",
	"phone.required":        "Phone number is required",
	"phone.max":             "Phone number cannot exceed 20 characters",
	"address.required":      "Delivery address is required",
	"address.max":           "Address cannot exceed 500 characters",
	"notes.max":             "Notes cannot exceed 500 characters",
	"items.required":        "No order items provided",
	"items.min":             "No order items provided",
	"productId.required":    "Product id is required",
	"productId.uuid":        "Invalid product id",
	"weight.required":       "Weight is required",
	"quantity.gte":          "Quantity must be at least 1",
}

// Normalize trims the contact fields and item weights in place.
func (in *PlaceOrderInput) Normalize() {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.Notes = strings.TrimSpace(in.Notes)
	for i := range in.Items {
		in.Items[i].ProductID = strings.TrimSpace(in.Items[i].ProductID)
		in.Items[i].Weight = strings.TrimSpace(in.Items[i].Weight)
	}
}

// Validate checks the request shape. Catalogue checks happen during placement.
func (in *PlaceOrderInput) Validate() error {
	return validate.Struct(in, placementMessages)
}
