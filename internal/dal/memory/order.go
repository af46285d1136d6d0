package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/order"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/orderitem"
	"github.com/shopspring/decimal"
)

// OrderRepository stores orders in memory.
type OrderRepository struct {
	store *Store
	work  *UnitOfWork
}

func (r *OrderRepository) Insert(_ context.Context, o order.Order) (order.Order, error) {
	defer r.work.serialize()()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.data.orders {
		if existing.Code == o.Code {
			return order.Order{}, fmt.Errorf("orderrepo.Insert %s: %w", o.Code, iorderrepo.ErrCodeTaken)
		}
	}

	r.store.data.orderSeq++
	o.ID = r.store.data.orderSeq
	o.Items = nil
	o.NextStatus = nil
	r.store.data.orders[o.ID] = o

	return o, nil
}

func (r *OrderRepository) GetByCode(_ context.Context, code string) (order.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, o := range r.store.data.orders {
		if o.Code == code {
			return o, nil
		}
	}

	return order.Order{}, fmt.Errorf("orderrepo.GetByCode: %w", errs.ErrNotFound)
}

// GetByCodeForUpdate relies on the transaction lock held by the unit of work.
func (r *OrderRepository) GetByCodeForUpdate(ctx context.Context, code string) (order.Order, error) {
	return r.GetByCode(ctx, code)
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id int64, status order.Status, updatedAt time.Time) error {
	defer r.work.serialize()()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o, ok := r.store.data.orders[id]
	if !ok {
		return fmt.Errorf("orderrepo.UpdateStatus: %w", errs.ErrNotFound)
	}

	o.Status = status
	o.UpdatedAt = updatedAt
	r.store.data.orders[id] = o

	return nil
}

func matchOrder(o order.Order, filter *order.QueryOrdersModel) bool {
	if len(filter.Ids) > 0 && !slices.Contains(filter.Ids, o.ID) {
		return false
	}
	if len(filter.Codes) > 0 && !slices.Contains(filter.Codes, o.Code) {
		return false
	}
	if filter.Phone != "" && o.Phone != filter.Phone {
		return false
	}
	if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, o.Status) {
		return false
	}
	if filter.CreatedSince != nil && o.CreatedAt.Before(*filter.CreatedSince) {
		return false
	}

	return true
}

func (r *OrderRepository) Query(_ context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := []order.Order{}
	for _, o := range r.store.data.orders {
		if matchOrder(o, filter) {
			result = append(result, o)
		}
	}

	slices.SortFunc(result, func(a, b order.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		return cmp.Compare(b.ID, a.ID)
	})

	if filter.Offset > 0 {
		result = result[min(filter.Offset, len(result)):]
	}

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}

	return result, nil
}

func (r *OrderRepository) Count(_ context.Context, filter *order.QueryOrdersModel) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, o := range r.store.data.orders {
		if matchOrder(o, filter) {
			count++
		}
	}

	return count, nil
}

func (r *OrderRepository) StatsByStatus(context.Context) ([]order.StatusStats, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	byStatus := make(map[order.Status]*order.StatusStats)
	for _, o := range r.store.data.orders {
		stat, ok := byStatus[o.Status]
		if !ok {
			stat = &order.StatusStats{Status: o.Status, TotalAmount: decimal.Zero}
			byStatus[o.Status] = stat
		}
		stat.Count++
		stat.TotalAmount = stat.TotalAmount.Add(o.TotalAmount)
	}

	result := make([]order.StatusStats, 0, len(byStatus))
	for _, stat := range byStatus {
		result = append(result, *stat)
	}

	slices.SortFunc(result, func(a, b order.StatusStats) int {
		return cmp.Compare(a.Status, b.Status)
	})

	return result, nil
}

// OrderItemRepository stores order items in memory.
type OrderItemRepository struct {
	store *Store
	work  *UnitOfWork
}

func (r *OrderItemRepository) BulkInsert(_ context.Context, orderItems []orderitem.OrderItem) ([]orderitem.OrderItem, error) {
	defer r.work.serialize()()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result := make([]orderitem.OrderItem, 0, len(orderItems))
	for _, item := range orderItems {
		if _, ok := r.store.data.orders[item.OrderID]; !ok {
			return nil, fmt.Errorf("orderitemrepo.BulkInsert: order %d: %w", item.OrderID, errs.ErrNotFound)
		}

		r.store.data.orderItemSeq++
		item.ID = r.store.data.orderItemSeq
		r.store.data.orderItems[item.ID] = item
		result = append(result, item)
	}

	return result, nil
}

func (r *OrderItemRepository) Query(_ context.Context, filter *orderitem.QueryOrderItemsModel) ([]orderitem.OrderItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := []orderitem.OrderItem{}
	for _, item := range r.store.data.orderItems {
		if len(filter.Ids) > 0 && !slices.Contains(filter.Ids, item.ID) {
			continue
		}
		if len(filter.OrderIds) > 0 && !slices.Contains(filter.OrderIds, item.OrderID) {
			continue
		}
		if len(filter.ProductIds) > 0 && !slices.Contains(filter.ProductIds, item.ProductID) {
			continue
		}
		result = append(result, item)
	}

	slices.SortFunc(result, func(a, b orderitem.OrderItem) int {
		if c := cmp.Compare(a.OrderID, b.OrderID); c != 0 {
			return c
		}

		return cmp.Compare(a.Position, b.Position)
	})

	return result, nil
}
