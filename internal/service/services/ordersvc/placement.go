package ordersvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/order"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/outbox"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PlaceOrder validates the cart against the live catalogue, reserves stock and persists the order.
// Everything runs in one transaction: on any failure no stock is taken and no order is stored.
func (s *OrderService) PlaceOrder(ctx context.Context, in order.PlaceOrderInput) (order.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder")
	defer span.End()

	in.Normalize()
	if err := in.Validate(); err != nil {
		s.metrics.OrderRejected(errs.CodeOf(err))

		return order.Order{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	created, err := s.placeOrder(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.OrderRejected(errs.CodeOf(err))

		return order.Order{}, err
	}

	span.SetAttributes(
		attribute.String("order.code", created.Code),
		attribute.Int("order.items", len(created.Items)),
	)
	amount, _ := created.TotalAmount.Float64()
	s.metrics.OrderPlaced(amount)
	slog.Info("Order placed", "order_code", created.Code, "items", len(created.Items), "total", created.TotalAmount.String())

	return created.WithNextStatus(), nil
}

func (s *OrderService) placeOrder(ctx context.Context, in order.PlaceOrderInput) (_ order.Order, err error) {
	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, err
	}
	defer func() {
		if rbErr := work.Rollback(ctx); rbErr != nil {
			err = errors.Join(err, rbErr)
		}
	}()

	items, err := s.reserveItems(ctx, work, in.Items)
	if err != nil {
		return order.Order{}, err
	}

	now := s.now()
	draft := order.Order{
		UserID:        in.UserID,
		CustomerName:  in.CustomerName,
		Phone:         in.Phone,
		Address:       in.Address,
		TotalAmount:   orderitem.Total(items),
		Status:        order.StatusPending,
		PaymentMethod: order.PaymentCashOnDelivery,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.insertWithUniqueCode(ctx, work, draft)
	if err != nil {
		return order.Order{}, err
	}

	for i := range items {
		items[i].OrderID = created.ID
	}
	created.Items, err = work.OrderItemRepository().BulkInsert(ctx, items)
	if err != nil {
		return order.Order{}, err
	}

	if err := s.writeEvent(ctx, work, order.EventPlaced, created, ""); err != nil {
		return order.Order{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, err
	}

	return created, nil
}

// reserveItems checks each requested item in client order and takes its stock.
// The first offending item fails the whole request.
func (s *OrderService) reserveItems(
	ctx context.Context,
	work UnitOfWork,
	requested []order.PlaceOrderItem,
) ([]orderitem.OrderItem, error) {
	items := make([]orderitem.OrderItem, 0, len(requested))

	for i, req := range requested {
		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			return nil, errs.Newf(errs.ErrNotFound, "PRODUCT_NOT_FOUND", "Product not found: %s", req.ProductID)
		}

		p, err := work.ProductRepository().GetByID(ctx, productID)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return nil, errs.Newf(errs.ErrNotFound, "PRODUCT_NOT_FOUND", "Product not found: %s", req.ProductID)
			}

			return nil, err
		}

		variant, ok := p.Variant(req.Weight)
		if !ok {
			return nil, errs.Newf(errs.ErrNotFound, "VARIANT_NOT_FOUND",
				"Weight variant %s not found for %s", req.Weight, p.Name)
		}

		if variant.Stock < req.Quantity {
			return nil, insufficientStock(p.Name, req.Weight)
		}

		taken, err := work.ProductRepository().DecrementStock(ctx, p.ID, variant.Weight, req.Quantity)
		if err != nil {
			return nil, err
		}
		if !taken {
			// a concurrent order won the remaining stock between the read and the write
			return nil, insufficientStock(p.Name, req.Weight)
		}

		items = append(items, orderitem.OrderItem{
			Position:    i,
			ProductID:   p.ID,
			ProductName: p.Name,
			Weight:      variant.Weight,
			Price:       variant.Price,
			Quantity:    req.Quantity,
		})
	}

	return items, nil
}

func insufficientStock(name, weight string) error {
	return errs.Newf(errs.ErrValidation, "INSUFFICIENT_STOCK", "Insufficient stock for %s (%s)", name, weight)
}

// insertWithUniqueCode regenerates the order code on collision, up to codeRetries attempts.
func (s *OrderService) insertWithUniqueCode(ctx context.Context, work UnitOfWork, draft order.Order) (order.Order, error) {
	for attempt := 1; attempt <= s.codeRetries; attempt++ {
		draft.Code = s.newCode(draft.CreatedAt)

		created, err := work.OrderRepository().Insert(ctx, draft)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, iorderrepo.ErrCodeTaken) {
			return order.Order{}, err
		}

		slog.Warn("Order code collision, regenerating", "order_code", draft.Code, "attempt", attempt)
	}

	return order.Order{}, errs.Newf(errs.ErrConflict, "ORDER_CODE_CONFLICT",
		"Could not allocate a unique order code after %d attempts", s.codeRetries)
}

// writeEvent stores an order event in the outbox inside the current transaction.
func (s *OrderService) writeEvent(
	ctx context.Context,
	work UnitOfWork,
	eventType string,
	o order.Order,
	previous order.Status,
) error {
	if s.eventsExchange == "" {
		return nil
	}

	payload, err := json.Marshal(order.Event{
		Type:           eventType,
		OrderID:        o.ID,
		OrderCode:      o.Code,
		Phone:          o.Phone,
		Status:         o.Status,
		PreviousStatus: previous,
		TotalAmount:    o.TotalAmount,
		OccurredAt:     o.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	now := s.now()

	return work.OutboxRepository().Insert(ctx, outbox.OutboxMessage{
		ExchangeName: s.eventsExchange,
		RoutingKey:   eventType,
		Payload:      payload,
		ContentType:  "application/json",
		MaxRetries:   defaultMaxRetries,
		CreatedAt:    now,
		UpdatedAt:    now,
		NextRetryAt:  now,
	})
}
