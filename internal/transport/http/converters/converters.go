// Package converters maps HTTP request bodies onto service models.
package converters

import (
	"github.com/corray333/backend-labs/meatshop/internal/service/models/product"
)

// ProductRequest is the body of the product create and update endpoints.
type ProductRequest struct {
	Name           string                  `json:"name"`
	Description    string                  `json:"description"`
	Category       product.Category        `json:"category"`
	Image          string                  `json:"image"`
	WeightVariants []product.WeightVariant `json:"weightVariants"`
	IsBestSeller   *bool                   `json:"isBestSeller"`
	IsAvailable    *bool                   `json:"isAvailable"`
}

// ToModel converts the request into a product. Omitted flags default to
// not a best seller and available.
func (r *ProductRequest) ToModel() product.Product {
	p := product.Product{
		Name:           r.Name,
		Description:    r.Description,
		Category:       r.Category,
		Image:          r.Image,
		WeightVariants: r.WeightVariants,
		IsAvailable:    true,
	}
	if r.IsBestSeller != nil {
		p.IsBestSeller = *r.IsBestSeller
	}
	if r.IsAvailable != nil {
		p.IsAvailable = *r.IsAvailable
	}

	return p
}

// ProductPatchRequest is the body of the product update endpoint. Omitted fields keep their stored value.
type ProductPatchRequest struct {
	Name           *string                 `json:"name"`
	Description    *string                 `json:"description"`
	Category       *product.Category       `json:"category"`
	Image          *string                 `json:"image"`
	WeightVariants []product.WeightVariant `json:"weightVariants"`
	IsBestSeller   *bool                   `json:"isBestSeller"`
	IsAvailable    *bool                   `json:"isAvailable"`
}

// ToPatch converts the request into a product patch.
func (r *ProductPatchRequest) ToPatch() product.Patch {
	return product.Patch{
		Name:           r.Name,
		Description:    r.Description,
		Category:       r.Category,
		Image:          r.Image,
		WeightVariants: r.WeightVariants,
		IsBestSeller:   r.IsBestSeller,
		IsAvailable:    r.IsAvailable,
	}
}
