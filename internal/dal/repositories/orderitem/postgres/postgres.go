package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/meatshop/internal/dal/postgres"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/orderitem"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemDal represents order item data access layer model.
type OrderItemDal struct {
	Id          int64           `db:"id"`
	OrderId     int64           `db:"order_id"`
	Position    int             `db:"position"`
	ProductId   uuid.UUID       `db:"product_id"`
	ProductName string          `db:"product_name"`
	Weight      string          `db:"weight"`
	Price       decimal.Decimal `db:"price"`
	Quantity    int             `db:"quantity"`
}

// ToModel converts OrderItemDal to service layer OrderItem model.
func (oi *OrderItemDal) ToModel() orderitem.OrderItem {
	return orderitem.OrderItem{
		ID:          oi.Id,
		OrderID:     oi.OrderId,
		Position:    oi.Position,
		ProductID:   oi.ProductId,
		ProductName: oi.ProductName,
		Weight:      oi.Weight,
		Price:       oi.Price,
		Quantity:    oi.Quantity,
	}
}

func (oi *OrderItemDal) scanDest() []any {
	return []any{
		&oi.Id,
		&oi.OrderId,
		&oi.Position,
		&oi.ProductId,
		&oi.ProductName,
		&oi.Weight,
		&oi.Price,
		&oi.Quantity,
	}
}

var orderItemColumns = []string{
	"id",
	"order_id",
	"position",
	"product_id",
	"product_name",
	"weight",
	"price",
	"quantity",
}

// PostgresOrderItemRepository represents a Postgres order item repository.
type PostgresOrderItemRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderItemRepository creates a new Postgres order item repository.
func NewPostgresOrderItemRepository(conn postgres.GenericConn) *PostgresOrderItemRepository {
	return &PostgresOrderItemRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// BulkInsert inserts multiple order items in one statement and returns them with IDs.
func (r *PostgresOrderItemRepository) BulkInsert(
	ctx context.Context,
	orderItems []orderitem.OrderItem,
) ([]orderitem.OrderItem, error) {
	if len(orderItems) == 0 {
		return []orderitem.OrderItem{}, nil
	}

	query := r.sb.Insert("order_items").Columns(orderItemColumns[1:]...)
	for _, oi := range orderItems {
		query = query.Values(
			oi.OrderID,
			oi.Position,
			oi.ProductID,
			oi.ProductName,
			oi.Weight,
			oi.Price,
			oi.Quantity,
		)
	}

	sql, args, err := query.Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.WrapError("orderitemrepo.BulkInsert", err)
	}
	defer rows.Close()

	result := make([]orderitem.OrderItem, 0, len(orderItems))
	for rows.Next() {
		item := orderItems[len(result)]
		if err := rows.Scan(&item.ID); err != nil {
			return nil, fmt.Errorf("failed to scan order item id: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, postgres.WrapError("orderitemrepo.BulkInsert: rows", err)
	}

	return result, nil
}

// Query retrieves order items based on filter criteria.
func (r *PostgresOrderItemRepository) Query(
	ctx context.Context,
	filter *orderitem.QueryOrderItemsModel,
) ([]orderitem.OrderItem, error) {
	query := r.sb.Select(orderItemColumns...).From("order_items")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.OrderIds) > 0 {
		query = query.Where(sq.Eq{"order_id": filter.OrderIds})
	}

	if len(filter.ProductIds) > 0 {
		query = query.Where(sq.Eq{"product_id": filter.ProductIds})
	}

	sql, args, err := query.OrderBy("order_id", "position").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.WrapError("orderitemrepo.Query", err)
	}
	defer rows.Close()

	result := []orderitem.OrderItem{}
	for rows.Next() {
		var dal OrderItemDal
		if err := rows.Scan(dal.scanDest()...); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		result = append(result, dal.ToModel())
	}

	if err := rows.Err(); err != nil {
		return nil, postgres.WrapError("orderitemrepo.Query: rows", err)
	}

	return result, nil
}
