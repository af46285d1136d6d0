package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/meatshop/internal/dal/postgres"
	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/product"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var productColumns = []string{
	"id",
	"name",
	"description",
	"category",
	"image",
	"is_best_seller",
	"is_available",
	"created_at",
	"updated_at",
}

// ProductDal represents product data access layer model.
type ProductDal struct {
	Id           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Description  string    `db:"description"`
	Category     string    `db:"category"`
	Image        string    `db:"image"`
	IsBestSeller bool      `db:"is_best_seller"`
	IsAvailable  bool      `db:"is_available"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// ToModel converts ProductDal to service layer Product model. Variants are attached separately.
func (p *ProductDal) ToModel() product.Product {
	return product.Product{
		ID:             p.Id,
		Name:           p.Name,
		Description:    p.Description,
		Category:       product.Category(p.Category),
		Image:          p.Image,
		IsBestSeller:   p.IsBestSeller,
		IsAvailable:    p.IsAvailable,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		WeightVariants: []product.WeightVariant{},
	}
}

func (p *ProductDal) scanDest() []any {
	return []any{
		&p.Id,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.Image,
		&p.IsBestSeller,
		&p.IsAvailable,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
}

// PostgresProductRepository represents a Postgres product repository.
type PostgresProductRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresProductRepository creates a new Postgres product repository.
func NewPostgresProductRepository(conn postgres.GenericConn) *PostgresProductRepository {
	return &PostgresProductRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert stores a product with its variants.
func (r *PostgresProductRepository) Insert(ctx context.Context, p product.Product) (product.Product, error) {
	sql, args, err := r.sb.Insert("products").
		Columns(productColumns...).
		Values(
			p.ID,
			p.Name,
			p.Description,
			string(p.Category),
			p.Image,
			p.IsBestSeller,
			p.IsAvailable,
			p.CreatedAt,
			p.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	err = r.atomically(ctx, "productrepo.Insert", func(conn postgres.GenericConn) error {
		if _, err := conn.Exec(ctx, sql, args...); err != nil {
			return postgres.WrapError("productrepo.Insert", err)
		}

		return r.insertVariants(ctx, conn, p.ID, p.WeightVariants)
	})
	if err != nil {
		return product.Product{}, err
	}

	return p, nil
}

// atomically runs fn in a transaction, or in a savepoint when the repository is already bound to one.
func (r *PostgresProductRepository) atomically(
	ctx context.Context,
	op string,
	fn func(conn postgres.GenericConn) error,
) error {
	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return postgres.WrapError(op+": begin", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return postgres.WrapError(op+": commit", tx.Commit(ctx))
}

// Update replaces the product row, and its whole variant list unless p.WeightVariants is nil.
func (r *PostgresProductRepository) Update(ctx context.Context, p product.Product) (product.Product, error) {
	sql, args, err := r.sb.Update("products").
		Set("name", p.Name).
		Set("description", p.Description).
		Set("category", string(p.Category)).
		Set("image", p.Image).
		Set("is_best_seller", p.IsBestSeller).
		Set("is_available", p.IsAvailable).
		Set("updated_at", p.UpdatedAt).
		Where(sq.Eq{"id": p.ID}).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build update query: %w", err)
	}

	// variants are locked before the product row, the same order DecrementStock uses
	err = r.atomically(ctx, "productrepo.Update", func(conn postgres.GenericConn) error {
		if p.WeightVariants != nil {
			if _, err := conn.Exec(ctx, "DELETE FROM product_variants WHERE product_id = $1", p.ID); err != nil {
				return postgres.WrapError("productrepo.Update: delete variants", err)
			}
		}

		if err := conn.QueryRow(ctx, sql, args...).Scan(&p.CreatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("productrepo.Update: %w", errs.ErrNotFound)
			}

			return postgres.WrapError("productrepo.Update", err)
		}

		return r.insertVariants(ctx, conn, p.ID, p.WeightVariants)
	})
	if err != nil {
		return product.Product{}, err
	}

	return p, nil
}

func (r *PostgresProductRepository) insertVariants(
	ctx context.Context,
	conn postgres.GenericConn,
	productID uuid.UUID,
	variants []product.WeightVariant,
) error {
	if len(variants) == 0 {
		return nil
	}

	query := r.sb.Insert("product_variants").
		Columns("product_id", "position", "weight", "price", "stock")
	for i, v := range variants {
		query = query.Values(productID, i, v.Weight, v.Price, v.Stock)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build variants insert query: %w", err)
	}

	if _, err := conn.Exec(ctx, sql, args...); err != nil {
		return postgres.WrapError("productrepo.insertVariants", err)
	}

	return nil
}

// Delete removes a product. Order line items keep their snapshot.
func (r *PostgresProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return postgres.WrapError("productrepo.Delete", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("productrepo.Delete: %w", errs.ErrNotFound)
	}

	return nil
}

// GetByID returns a product with its variants.
func (r *PostgresProductRepository) GetByID(ctx context.Context, id uuid.UUID) (product.Product, error) {
	products, err := r.Query(ctx, &product.QueryProductsModel{Ids: []uuid.UUID{id}})
	if err != nil {
		return product.Product{}, err
	}

	if len(products) == 0 {
		return product.Product{}, fmt.Errorf("productrepo.GetByID: %w", errs.ErrNotFound)
	}

	return products[0], nil
}

// Query retrieves products based on filter criteria, newest first.
func (r *PostgresProductRepository) Query(
	ctx context.Context,
	filter *product.QueryProductsModel,
) ([]product.Product, error) {
	query := r.sb.Select(productColumns...).From("products")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if filter.Category != nil {
		query = query.Where(sq.Eq{"category": string(*filter.Category)})
	}

	if filter.IsBestSeller != nil {
		query = query.Where(sq.Eq{"is_best_seller": *filter.IsBestSeller})
	}

	if filter.IsAvailable != nil {
		query = query.Where(sq.Eq{"is_available": *filter.IsAvailable})
	}

	sql, args, err := query.OrderBy("created_at DESC", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.WrapError("productrepo.Query", err)
	}
	defer rows.Close()

	var result []product.Product
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var dal ProductDal
		if err := rows.Scan(dal.scanDest()...); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		index[dal.Id] = len(result)
		result = append(result, dal.ToModel())
	}

	if err := rows.Err(); err != nil {
		return nil, postgres.WrapError("productrepo.Query: rows", err)
	}

	if len(result) == 0 {
		return []product.Product{}, nil
	}

	if err := r.attachVariants(ctx, result, index); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresProductRepository) attachVariants(
	ctx context.Context,
	products []product.Product,
	index map[uuid.UUID]int,
) error {
	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	sql, args, err := r.sb.Select("product_id", "weight", "price", "stock").
		From("product_variants").
		Where(sq.Eq{"product_id": ids}).
		OrderBy("product_id", "position").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build variants query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return postgres.WrapError("productrepo.attachVariants", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			productID uuid.UUID
			variant   product.WeightVariant
			price     decimal.Decimal
		)
		if err := rows.Scan(&productID, &variant.Weight, &price, &variant.Stock); err != nil {
			return fmt.Errorf("failed to scan variant: %w", err)
		}

		variant.Price = price
		i := index[productID]
		products[i].WeightVariants = append(products[i].WeightVariants, variant)
	}

	return postgres.WrapError("productrepo.attachVariants: rows", rows.Err())
}

// DecrementStock atomically subtracts qty from the variant when enough stock remains.
func (r *PostgresProductRepository) DecrementStock(
	ctx context.Context,
	id uuid.UUID,
	weight string,
	qty int,
) (bool, error) {
	sql, args, err := r.sb.Update("product_variants").
		Set("stock", sq.Expr("stock - ?", qty)).
		Where(sq.Eq{"product_id": id, "weight": weight}).
		Where(sq.GtOrEq{"stock": qty}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build decrement query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return false, postgres.WrapError("productrepo.DecrementStock", err)
	}

	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := r.conn.Exec(ctx, "UPDATE products SET updated_at = now() WHERE id = $1", id); err != nil {
		return false, postgres.WrapError("productrepo.DecrementStock: touch", err)
	}

	return true, nil
}

// ToggleAvailability flips is_available and returns the updated product.
func (r *PostgresProductRepository) ToggleAvailability(
	ctx context.Context,
	id uuid.UUID,
	updatedAt time.Time,
) (product.Product, error) {
	sql, args, err := r.sb.Update("products").
		Set("is_available", sq.Expr("NOT is_available")).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build toggle query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return product.Product{}, postgres.WrapError("productrepo.ToggleAvailability", err)
	}

	if tag.RowsAffected() == 0 {
		return product.Product{}, fmt.Errorf("productrepo.ToggleAvailability: %w", errs.ErrNotFound)
	}

	return r.GetByID(ctx, id)
}
