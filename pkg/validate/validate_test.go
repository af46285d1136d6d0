package validate_test

import (
	"testing"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/pkg/validate"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	Label string          `json:"label" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
}

type sample struct {
	Name  string `json:"name"  validate:"required,max=5"`
	Lines []line `json:"lines" validate:"required,min=1,unique=Label,dive"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      sample
		wantMsg string
	}{
		{
			name: "valid",
			in:   sample{Name: "ok", Lines: []line{{Label: "a", Price: decimal.NewFromInt(1)}}},
		},
		{
			name:    "custom message wins",
			in:      sample{Lines: []line{{Label: "a"}}},
			wantMsg: "Name please",
		},
		{
			name:    "string max",
			in:      sample{Name: "toolong", Lines: []line{{Label: "a"}}},
			wantMsg: "name cannot exceed 5 characters",
		},
		{
			name:    "negative decimal",
			in:      sample{Name: "ok", Lines: []line{{Label: "a", Price: decimal.NewFromInt(-1)}}},
			wantMsg: "price cannot be negative",
		},
		{
			name:    "duplicate labels",
			in:      sample{Name: "ok", Lines: []line{{Label: "a"}, {Label: "a"}}},
			wantMsg: "lines must not contain duplicates",
		},
	}

	messages := validate.Messages{"name.required": "Name please"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.in, messages)
			if tt.wantMsg == "" {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, errs.ErrValidation)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}
