package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/corray333/backend-labs/meatshop/internal/dal/postgres"
	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind error
	}{
		{
			name:     "unique violation: conflict",
			err:      &pgconn.PgError{Code: postgres.UniqueViolation, ConstraintName: "users_email_key"},
			wantKind: errs.ErrConflict,
		},
		{
			name:     "deadline: unavailable",
			err:      fmt.Errorf("query: %w", context.DeadlineExceeded),
			wantKind: errs.ErrUnavailable,
		},
		{
			name:     "admin shutdown: unavailable",
			err:      &pgconn.PgError{Code: "57P01"},
			wantKind: errs.ErrUnavailable,
		},
		{
			name:     "syntax error: unclassified",
			err:      &pgconn.PgError{Code: "42601"},
			wantKind: nil,
		},
		{
			name:     "plain error: unclassified",
			err:      errors.New("boom"),
			wantKind: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := postgres.WrapError("repo.Op", tt.err)

			assert.Equal(t, tt.wantKind, errs.KindOf(err))
			assert.ErrorIs(t, err, tt.err)
			assert.Contains(t, err.Error(), "repo.Op: ")
		})
	}

	assert.NoError(t, postgres.WrapError("repo.Op", nil))
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: postgres.UniqueViolation, ConstraintName: "orders_order_code_key"})

	assert.True(t, postgres.IsUniqueViolation(err, ""))
	assert.True(t, postgres.IsUniqueViolation(err, "orders_order_code_key"))
	assert.False(t, postgres.IsUniqueViolation(err, "users_email_key"))
	assert.False(t, postgres.IsUniqueViolation(errors.New("x"), ""))
}
