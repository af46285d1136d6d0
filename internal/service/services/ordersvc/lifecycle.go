package ordersvc

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/order"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/orderitem"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// ListFilter selects a page of orders for the admin view.
type ListFilter struct {
	// Status is empty or "all" for no filter.
	Status string `schema:"status"`
	Page   int    `schema:"page"`
	Limit  int    `schema:"limit"`
}

// Page is one page of orders with its pagination totals.
type Page struct {
	Orders []order.Order
	Total  int
	Page   int
	Pages  int
}

func errOrderNotFound() error {
	return errs.New(errs.ErrNotFound, "ORDER_NOT_FOUND", "Order not found")
}

// UpdateStatus moves an order to target. It returns the updated order.
func (s *OrderService) UpdateStatus(ctx context.Context, code string, target string) (order.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateStatus")
	defer span.End()
	span.SetAttributes(attribute.String("order.code", code), attribute.String("order.target_status", target))

	status, err := order.ParseStatus(target)
	if err != nil {
		return order.Order{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	updated, previous, err := s.updateStatus(ctx, code, status)
	if err != nil {
		span.RecordError(err)

		return order.Order{}, err
	}

	s.metrics.StatusChanged(previous.String(), status.String())
	slog.Info("Order status updated", "order_code", code, "from", previous, "to", status)

	return updated.WithNextStatus(), nil
}

func (s *OrderService) updateStatus(
	ctx context.Context,
	code string,
	status order.Status,
) (_ order.Order, _ order.Status, err error) {
	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, "", err
	}
	defer func() {
		if rbErr := work.Rollback(ctx); rbErr != nil {
			err = errors.Join(err, rbErr)
		}
	}()

	o, err := work.OrderRepository().GetByCodeForUpdate(ctx, code)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return order.Order{}, "", errOrderNotFound()
		}

		return order.Order{}, "", err
	}

	previous := o.Status
	if s.strictTransitions {
		if err := previous.ValidateTransition(status); err != nil {
			return order.Order{}, "", err
		}
	}

	o.Status = status
	o.UpdatedAt = s.now()
	if err := work.OrderRepository().UpdateStatus(ctx, o.ID, o.Status, o.UpdatedAt); err != nil {
		return order.Order{}, "", err
	}

	if err := s.writeEvent(ctx, work, order.EventStatusChanged, o, previous); err != nil {
		return order.Order{}, "", err
	}

	if err := s.attachItems(ctx, work, []order.Order{o}); err != nil {
		return order.Order{}, "", err
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, "", err
	}

	return o, previous, nil
}

// GetByCode returns the order with the given code, items included.
func (s *OrderService) GetByCode(ctx context.Context, code string) (order.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetByCode")
	defer span.End()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	work := s.newUOW()
	o, err := work.OrderRepository().GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return order.Order{}, errOrderNotFound()
		}

		return order.Order{}, err
	}

	orders := []order.Order{o}
	if err := s.attachItems(ctx, work, orders); err != nil {
		return order.Order{}, err
	}

	return orders[0].WithNextStatus(), nil
}

// ListByPhone returns the most recent orders placed with phone, newest first.
func (s *OrderService) ListByPhone(ctx context.Context, phone string) ([]order.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListByPhone")
	defer span.End()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.query(ctx, &order.QueryOrdersModel{Phone: phone, Limit: s.trackLimit})
}

// List returns one page of orders for the admin view.
func (s *OrderService) List(ctx context.Context, filter ListFilter) (Page, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.List")
	defer span.End()

	page, limit := normalizePage(filter.Page, filter.Limit)
	query := &order.QueryOrdersModel{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if filter.Status != "" && filter.Status != "all" {
		status, err := order.ParseStatus(filter.Status)
		if err != nil {
			return Page{}, err
		}
		query.Statuses = []order.Status{status}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	orders, err := s.query(ctx, query)
	if err != nil {
		return Page{}, err
	}

	total, err := s.newUOW().OrderRepository().Count(ctx, query)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Orders: orders,
		Total:  total,
		Page:   page,
		Pages:  int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}

	return page, min(limit, maxPageLimit)
}

// Stats aggregates every order by status for the admin dashboard.
func (s *OrderService) Stats(ctx context.Context) (order.Stats, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Stats")
	defer span.End()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	repo := s.newUOW().OrderRepository()

	byStatus, err := repo.StatsByStatus(ctx)
	if err != nil {
		return order.Stats{}, err
	}

	stats := order.Stats{ByStatus: byStatus, TotalRevenue: decimal.Zero}
	for _, st := range byStatus {
		stats.TotalOrders += st.Count
		if st.Status != order.StatusCancelled {
			stats.TotalRevenue = stats.TotalRevenue.Add(st.TotalAmount)
		}
	}

	midnight := startOfDay(s.now())
	stats.TodayOrders, err = repo.Count(ctx, &order.QueryOrdersModel{CreatedSince: &midnight})
	if err != nil {
		return order.Stats{}, err
	}

	return stats, nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func (s *OrderService) query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	if err := s.attachItems(ctx, work, orders); err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i] = orders[i].WithNextStatus()
	}

	return orders, nil
}

// attachItems loads the line items of orders in one query and distributes them in place.
func (s *OrderService) attachItems(ctx context.Context, work UnitOfWork, orders []order.Order) error {
	orderItemQuery := &orderitem.QueryOrderItemsModel{}
	for _, o := range orders {
		orderItemQuery.OrderIds = append(orderItemQuery.OrderIds, o.ID)
	}

	orderItems, err := work.OrderItemRepository().Query(ctx, orderItemQuery)
	if err != nil {
		return err
	}

	byOrder := make(map[int64][]orderitem.OrderItem, len(orders))
	for _, item := range orderItems {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []orderitem.OrderItem{}
		}
	}

	return nil
}
