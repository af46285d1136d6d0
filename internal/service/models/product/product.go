package product

import (
	"fmt"
	"strings"
	"time"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/pkg/validate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is the closed set of catalogue sections.
type Category string

const (
	CategoryChicken Category = "chicken"
	CategoryMutton  Category = "mutton"
	CategorySeafood Category = "seafood"
	CategoryEggs    Category = "eggs"
	CategoryBeef    Category = "beef"
)

// remember to update the oneof tag on Product.Category when adding a category
var categories = []Category{CategoryChicken, CategoryMutton, CategorySeafood, CategoryEggs, CategoryBeef}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	for _, c := range categories {
		if string(c) == s {
			return c, nil
		}
	}

	return "", errs.New(errs.ErrValidation, "INVALID_CATEGORY", fmt.Sprintf("Unknown category: %s", s))
}

// WeightVariant is a priced, stocked unit of a product identified by its weight label.
type WeightVariant struct {
	Weight string          `json:"weight" validate:"required"`
	Price  decimal.Decimal `json:"price"  validate:"gte=0"`
	Stock  int             `json:"stock"  validate:"gte=0"`
}

// Product represents a sellable catalogue item.
type Product struct {
	ID             uuid.UUID       `json:"_id"`
	Name           string          `json:"name"           validate:"required,max=200"`
	Description    string          `json:"description"    validate:"required,max=1000"`
	Category       Category        `json:"category"       validate:"required,oneof=chicken mutton seafood eggs beef"`
	Image          string          `json:"image"          validate:"required"`
	WeightVariants []WeightVariant `json:"weightVariants" validate:"required,min=1,unique=Weight,dive"`
	IsBestSeller   bool            `json:"isBestSeller"`
	IsAvailable    bool            `json:"isAvailable"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

var messages = validate.Messages{
	"name.required":           "Product name is required",
	"name.max":                "Name cannot exceed 200 characters",
	"description.required":    "Description is required",
	"description.max":         "Description cannot exceed 1000 characters",
	"category.required":       "Category is required",
	"category.oneof":          "Category must be chicken, mutton, seafood, eggs, or beef",
	"image.required":          "Product image is required",
	"weightVariants.required": "At least one weight variant is required",
	"weightVariants.min":      "Product must have at least one weight variant",
	"weightVariants.unique":   "Weight labels must be unique within a product",
	"weight.required":         "Weight is required",
	"price.gte":               "Price cannot be negative",
	"stock.gte":               "Stock cannot be negative",
}

// Normalize trims the free-text fields in place.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Image = strings.TrimSpace(p.Image)
	for i := range p.WeightVariants {
		p.WeightVariants[i].Weight = strings.TrimSpace(p.WeightVariants[i].Weight)
	}
}

// Validate checks the stored-document invariants.
func (p *Product) Validate() error {
	return validate.Struct(p, messages)
}

// Variant returns the variant with exactly the given weight label.
func (p *Product) Variant(weight string) (WeightVariant, bool) {
	for _, v := range p.WeightVariants {
		if v.Weight == weight {
			return v, true
		}
	}

	return WeightVariant{}, false
}
