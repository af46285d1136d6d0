package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes the repositories react to.
const (
	UniqueViolation = "23505"
	CheckViolation  = "23514"
)

// IsUniqueViolation reports whether err is a unique violation, optionally on a specific constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != UniqueViolation {
		return false
	}

	return constraint == "" || pgErr.ConstraintName == constraint
}

// IsCheckViolation reports whether err is a CHECK constraint failure.
func IsCheckViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == CheckViolation
}

// WrapError annotates err with op and classifies driver failures:
// unique violations become conflicts, connection loss and timeouts become retryable.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	if IsUniqueViolation(err, "") {
		return fmt.Errorf("%s: %w", op, errs.Wrap(errs.ErrConflict, "DUPLICATE_KEY", err))
	}

	if isUnavailable(err) {
		return fmt.Errorf("%s: %w", op, errs.Wrap(errs.ErrUnavailable, "STORE_UNAVAILABLE", err))
	}

	return fmt.Errorf("%s: %w", op, err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 08: connection exception, 57P01..03: server shutting down
		return len(pgErr.Code) == 5 && (pgErr.Code[:2] == "08" || pgErr.Code[:3] == "57P")
	}

	return false
}
