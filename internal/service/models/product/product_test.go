package product_test

import (
	"strings"
	"testing"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/product"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProduct() product.Product {
	return product.Product{
		Name:        "Beef Curry Cut",
		Description: "Bone-in beef cut into curry-sized pieces.",
		Category:    product.CategoryBeef,
		Image:       "https://example.com/beef.jpg",
		WeightVariants: []product.WeightVariant{
			{Weight: "250g", Price: decimal.NewFromInt(180), Stock: 50},
			{Weight: "500g", Price: decimal.NewFromInt(350), Stock: 40},
		},
		IsAvailable: true,
	}
}

func TestProductValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *product.Product)
		wantMsg string
	}{
		{
			name:   "valid product: ok",
			mutate: func(p *product.Product) {},
		},
		{
			name:    "missing name: fail",
			mutate:  func(p *product.Product) { p.Name = "" },
			wantMsg: "Product name is required",
		},
		{
			name:    "name too long: fail",
			mutate:  func(p *product.Product) { p.Name = strings.Repeat("x", 201) },
			wantMsg: "Name cannot exceed 200 characters",
		},
		{
			name:    "unknown category: fail",
			mutate:  func(p *product.Product) { p.Category = "pork" },
			wantMsg: "Category must be chicken, mutton, seafood, eggs, or beef",
		},
		{
			name:    "no variants: fail",
			mutate:  func(p *product.Product) { p.WeightVariants = []product.WeightVariant{} },
			wantMsg: "Product must have at least one weight variant",
		},
		{
			name: "duplicate weight labels: fail",
			mutate: func(p *product.Product) {
				p.WeightVariants = append(p.WeightVariants, product.WeightVariant{Weight: "500g", Price: decimal.NewFromInt(1)})
			},
			wantMsg: "Weight labels must be unique within a product",
		},
		{
			name:    "negative price: fail",
			mutate:  func(p *product.Product) { p.WeightVariants[0].Price = decimal.NewFromInt(-1) },
			wantMsg: "Price cannot be negative",
		},
		{
			name:    "negative stock: fail",
			mutate:  func(p *product.Product) { p.WeightVariants[1].Stock = -3 },
			wantMsg: "Stock cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			tt.mutate(&p)

			err := p.Validate()
			if tt.wantMsg == "" {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, errs.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestProductNormalize(t *testing.T) {
	p := validProduct()
	p.Name = "  Beef Ribs \n"
	p.WeightVariants[0].Weight = " 250g "

	p.Normalize()

	assert.Equal(t, "Beef Ribs", p.Name)
	assert.Equal(t, "250g", p.WeightVariants[0].Weight)
}

func TestProductVariant(t *testing.T) {
	p := validProduct()

	v, ok := p.Variant("500g")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(350).Equal(v.Price))

	_, ok = p.Variant("500G")
	assert.False(t, ok)
}

func TestParseCategory(t *testing.T) {
	c, err := product.ParseCategory("seafood")
	require.NoError(t, err)
	assert.Equal(t, product.CategorySeafood, c)

	_, err = product.ParseCategory("all")
	assert.ErrorIs(t, err, errs.ErrValidation)
}
