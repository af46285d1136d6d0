package iproductrepo

import (
	"context"
	"time"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/product"
	"github.com/google/uuid"
)

// IProductRepository is an interface for product repository.
// Missing products are reported with errs.ErrNotFound.
type IProductRepository interface {
	Insert(ctx context.Context, p product.Product) (product.Product, error)
	// Update replaces every field. The variant list is replaced too unless it is nil.
	Update(ctx context.Context, p product.Product) (product.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (product.Product, error)
	Query(ctx context.Context, filter *product.QueryProductsModel) ([]product.Product, error)
	// DecrementStock subtracts qty only if enough stock remains and reports whether it did.
	DecrementStock(ctx context.Context, id uuid.UUID, weight string, qty int) (bool, error)
	ToggleAvailability(ctx context.Context, id uuid.UUID, updatedAt time.Time) (product.Product, error)
}
