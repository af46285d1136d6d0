package product_test

import (
	"testing"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/product"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPatchApply(t *testing.T) {
	current := product.Product{
		Name:         "Chicken Breast",
		Description:  "Boneless breast",
		Category:     product.CategoryChicken,
		Image:        "https://example.com/breast.jpg",
		IsBestSeller: true,
		IsAvailable:  false,
		WeightVariants: []product.WeightVariant{
			{Weight: "500g", Price: decimal.NewFromInt(220), Stock: 10},
		},
	}

	t.Run("patch: empty keeps everything", func(t *testing.T) {
		assert.Equal(t, current, product.Patch{}.Apply(current))
	})

	t.Run("patch: price edit leaves flags alone", func(t *testing.T) {
		variants := []product.WeightVariant{{Weight: "500g", Price: decimal.NewFromInt(240), Stock: 10}}
		got := product.Patch{WeightVariants: variants}.Apply(current)

		assert.Equal(t, variants, got.WeightVariants)
		assert.False(t, got.IsAvailable)
		assert.True(t, got.IsBestSeller)
		assert.Equal(t, current.Name, got.Name)
	})

	t.Run("patch: explicit fields win", func(t *testing.T) {
		got := product.Patch{
			Name:        lo.ToPtr("Chicken Thigh"),
			Category:    lo.ToPtr(product.CategoryMutton),
			IsAvailable: lo.ToPtr(true),
		}.Apply(current)

		assert.Equal(t, "Chicken Thigh", got.Name)
		assert.Equal(t, product.CategoryMutton, got.Category)
		assert.True(t, got.IsAvailable)
		assert.Equal(t, current.WeightVariants, got.WeightVariants)
	})
}
