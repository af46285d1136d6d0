package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/meatshop/internal/dal/postgres"
	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/order"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const orderCodeConstraint = "orders_order_code_key"

var orderColumns = []string{
	"id",
	"order_code",
	"user_id",
	"customer_name",
	"phone",
	"address",
	"total_amount",
	"status",
	"payment_method",
	"notes",
	"created_at",
	"updated_at",
}

// OrderDal represents order data access layer model.
type OrderDal struct {
	Id            int64           `db:"id"`
	Code          string          `db:"order_code"`
	UserId        *uuid.UUID      `db:"user_id"`
	CustomerName  string          `db:"customer_name"`
	Phone         string          `db:"phone"`
	Address       string          `db:"address"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	Status        string          `db:"status"`
	PaymentMethod string          `db:"payment_method"`
	Notes         string          `db:"notes"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// ToModel converts OrderDal to service layer Order model.
func (o *OrderDal) ToModel() order.Order {
	return order.Order{
		ID:            o.Id,
		Code:          o.Code,
		UserID:        o.UserId,
		CustomerName:  o.CustomerName,
		Phone:         o.Phone,
		Address:       o.Address,
		TotalAmount:   o.TotalAmount,
		Status:        order.Status(o.Status),
		PaymentMethod: order.PaymentMethod(o.PaymentMethod),
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func (o *OrderDal) scanDest() []any {
	return []any{
		&o.Id,
		&o.Code,
		&o.UserId,
		&o.CustomerName,
		&o.Phone,
		&o.Address,
		&o.TotalAmount,
		&o.Status,
		&o.PaymentMethod,
		&o.Notes,
		&o.CreatedAt,
		&o.UpdatedAt,
	}
}

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn postgres.GenericConn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert stores the order row under a savepoint and returns it with its id.
// A duplicate order code yields iorderrepo.ErrCodeTaken and leaves the outer transaction intact.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	sql, args, err := r.sb.Insert("orders").
		Columns(orderColumns[1:]...).
		Values(
			o.Code,
			o.UserID,
			o.CustomerName,
			o.Phone,
			o.Address,
			o.TotalAmount,
			string(o.Status),
			string(o.PaymentMethod),
			o.Notes,
			o.CreatedAt,
			o.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	savepoint, err := r.conn.Begin(ctx)
	if err != nil {
		return order.Order{}, postgres.WrapError("orderrepo.Insert: savepoint", err)
	}
	defer func() {
		_ = savepoint.Rollback(ctx)
	}()

	if err := savepoint.QueryRow(ctx, sql, args...).Scan(&o.ID); err != nil {
		if postgres.IsUniqueViolation(err, orderCodeConstraint) {
			return order.Order{}, fmt.Errorf("orderrepo.Insert %s: %w", o.Code, iorderrepo.ErrCodeTaken)
		}

		return order.Order{}, postgres.WrapError("orderrepo.Insert", err)
	}

	if err := savepoint.Commit(ctx); err != nil {
		return order.Order{}, postgres.WrapError("orderrepo.Insert: release savepoint", err)
	}

	return o, nil
}

// GetByCode returns the order with the given code.
func (r *PostgresOrderRepository) GetByCode(ctx context.Context, code string) (order.Order, error) {
	return r.getByCode(ctx, code, "")
}

// GetByCodeForUpdate returns the order with the given code and locks its row.
func (r *PostgresOrderRepository) GetByCodeForUpdate(ctx context.Context, code string) (order.Order, error) {
	return r.getByCode(ctx, code, "FOR UPDATE")
}

func (r *PostgresOrderRepository) getByCode(ctx context.Context, code, suffix string) (order.Order, error) {
	query := r.sb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"order_code": code})
	if suffix != "" {
		query = query.Suffix(suffix)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal OrderDal
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(dal.scanDest()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, fmt.Errorf("orderrepo.GetByCode: %w", errs.ErrNotFound)
		}

		return order.Order{}, postgres.WrapError("orderrepo.GetByCode", err)
	}

	return dal.ToModel(), nil
}

// UpdateStatus overwrites the status of the order.
func (r *PostgresOrderRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	status order.Status,
	updatedAt time.Time,
) error {
	sql, args, err := r.sb.Update("orders").
		Set("status", string(status)).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.WrapError("orderrepo.UpdateStatus", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("orderrepo.UpdateStatus: %w", errs.ErrNotFound)
	}

	return nil
}

func applyOrderFilter(query sq.SelectBuilder, filter *order.QueryOrdersModel) sq.SelectBuilder {
	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.Codes) > 0 {
		query = query.Where(sq.Eq{"order_code": filter.Codes})
	}

	if filter.Phone != "" {
		query = query.Where(sq.Eq{"phone": filter.Phone})
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		query = query.Where(sq.Eq{"status": statuses})
	}

	if filter.CreatedSince != nil {
		query = query.Where(sq.GtOrEq{"created_at": *filter.CreatedSince})
	}

	return query
}

// Query retrieves orders based on filter criteria, newest first.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	query := applyOrderFilter(r.sb.Select(orderColumns...).From("orders"), filter).
		OrderBy("created_at DESC", "id DESC")

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.WrapError("orderrepo.Query", err)
	}
	defer rows.Close()

	result := []order.Order{}
	for rows.Next() {
		var dal OrderDal
		if err := rows.Scan(dal.scanDest()...); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, dal.ToModel())
	}

	if err := rows.Err(); err != nil {
		return nil, postgres.WrapError("orderrepo.Query: rows", err)
	}

	return result, nil
}

// Count returns the number of orders matching the filter. Limit and offset are ignored.
func (r *PostgresOrderRepository) Count(ctx context.Context, filter *order.QueryOrdersModel) (int, error) {
	sql, args, err := applyOrderFilter(r.sb.Select("count(*)").From("orders"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, postgres.WrapError("orderrepo.Count", err)
	}

	return count, nil
}

// StatsByStatus groups all orders by status with count and summed total amount.
func (r *PostgresOrderRepository) StatsByStatus(ctx context.Context) ([]order.StatusStats, error) {
	sql, args, err := r.sb.Select("status", "count(*)", "coalesce(sum(total_amount), 0)").
		From("orders").
		GroupBy("status").
		OrderBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build stats query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.WrapError("orderrepo.StatsByStatus", err)
	}
	defer rows.Close()

	result := []order.StatusStats{}
	for rows.Next() {
		var (
			stat   order.StatusStats
			status string
		)
		if err := rows.Scan(&status, &stat.Count, &stat.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		stat.Status = order.Status(status)
		result = append(result, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, postgres.WrapError("orderrepo.StatsByStatus: rows", err)
	}

	return result, nil
}
