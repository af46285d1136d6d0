package product

import "github.com/google/uuid"

// QueryProductsModel represents filter parameters for querying products.
// Nil pointers mean "no filter on this field". Results are newest first.
type QueryProductsModel struct {
	Ids          []uuid.UUID
	Category     *Category
	IsBestSeller *bool
	IsAvailable  *bool
}
