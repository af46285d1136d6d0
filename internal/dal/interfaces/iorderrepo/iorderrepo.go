package iorderrepo

import (
	"context"
	"errors"
	"time"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/order"
)

// ErrCodeTaken is returned by Insert when the order code already exists.
// The insert is rolled back to a savepoint, so the surrounding transaction stays usable.
var ErrCodeTaken = errors.New("order code already taken")

// IOrderRepository is an interface for order repository.
// Orders are returned without items; items live in the order item repository.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (order.Order, error)
	GetByCode(ctx context.Context, code string) (order.Order, error)
	// GetByCodeForUpdate locks the row until the surrounding transaction ends.
	GetByCodeForUpdate(ctx context.Context, code string) (order.Order, error)
	UpdateStatus(ctx context.Context, id int64, status order.Status, updatedAt time.Time) error
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	Count(ctx context.Context, filter *order.QueryOrdersModel) (int, error)
	StatsByStatus(ctx context.Context) ([]order.StatusStats, error)
}
