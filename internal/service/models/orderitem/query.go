package orderitem

import "github.com/google/uuid"

// QueryOrderItemsModel represents filter parameters for querying order items.
type QueryOrderItemsModel struct {
	Ids        []int64
	OrderIds   []int64
	ProductIds []uuid.UUID
}
