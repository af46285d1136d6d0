package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/meatshop/internal/dal/postgres"
	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/user"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	emailConstraint  = "users_email_key"
	singleAdminIndex = "users_single_admin_idx"
)

var userColumns = []string{
	"id",
	"name",
	"email",
	"password_hash",
	"phone",
	"address",
	"role",
	"created_at",
	"updated_at",
}

// UserDal represents user data access layer model.
type UserDal struct {
	Id           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Phone        string    `db:"phone"`
	Address      string    `db:"address"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// ToModel converts UserDal to service layer User model.
func (u *UserDal) ToModel() user.User {
	return user.User{
		ID:           u.Id,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Phone:        u.Phone,
		Address:      u.Address,
		Role:         user.Role(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// PostgresUserRepository represents a Postgres user repository.
type PostgresUserRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresUserRepository creates a new Postgres user repository.
func NewPostgresUserRepository(conn postgres.GenericConn) *PostgresUserRepository {
	return &PostgresUserRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert stores a new user. A duplicate email or a second admin is a conflict.
func (r *PostgresUserRepository) Insert(ctx context.Context, u user.User) (user.User, error) {
	sql, args, err := r.sb.Insert("users").
		Columns(userColumns...).
		Values(
			u.ID,
			u.Name,
			u.Email,
			u.PasswordHash,
			u.Phone,
			u.Address,
			string(u.Role),
			u.CreatedAt,
			u.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err, singleAdminIndex) {
			return user.User{}, fmt.Errorf("userrepo.Insert: %w", adminExists(err))
		}
		if postgres.IsUniqueViolation(err, emailConstraint) {
			return user.User{}, fmt.Errorf("userrepo.Insert: %w",
				errs.Wrap(errs.ErrConflict, "EMAIL_TAKEN", err))
		}

		return user.User{}, postgres.WrapError("userrepo.Insert", err)
	}

	return u, nil
}

// GetByID returns the user with the given id.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return r.getOne(ctx, "userrepo.GetByID", sq.Eq{"id": id})
}

// GetByEmail returns the user with the given normalized email.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "userrepo.GetByEmail", sq.Eq{"email": email})
}

func (r *PostgresUserRepository) getOne(ctx context.Context, op string, where sq.Eq) (user.User, error) {
	sql, args, err := r.sb.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal UserDal
	err = r.conn.QueryRow(ctx, sql, args...).Scan(
		&dal.Id,
		&dal.Name,
		&dal.Email,
		&dal.PasswordHash,
		&dal.Phone,
		&dal.Address,
		&dal.Role,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}

		return user.User{}, postgres.WrapError(op, err)
	}

	return dal.ToModel(), nil
}

// Update overwrites the mutable profile fields and the role.
func (r *PostgresUserRepository) Update(ctx context.Context, u user.User) (user.User, error) {
	sql, args, err := r.sb.Update("users").
		Set("name", u.Name).
		Set("phone", u.Phone).
		Set("address", u.Address).
		Set("role", string(u.Role)).
		Set("updated_at", u.UpdatedAt).
		Where(sq.Eq{"id": u.ID}).
		ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsUniqueViolation(err, singleAdminIndex) {
			return user.User{}, fmt.Errorf("userrepo.Update: %w", adminExists(err))
		}

		return user.User{}, postgres.WrapError("userrepo.Update", err)
	}

	if tag.RowsAffected() == 0 {
		return user.User{}, fmt.Errorf("userrepo.Update: %w", errs.ErrNotFound)
	}

	return u, nil
}

// ExistsByRole reports whether at least one user holds role.
func (r *PostgresUserRepository) ExistsByRole(ctx context.Context, role user.Role) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE role = $1)", string(role)).Scan(&exists)
	if err != nil {
		return false, postgres.WrapError("userrepo.ExistsByRole", err)
	}

	return exists, nil
}

func adminExists(err error) error {
	e := errs.Wrap(errs.ErrConflict, "ADMIN_EXISTS", err)
	e.Message = "Admin already exists"

	return e
}
