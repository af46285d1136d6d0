package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name     string
		err      error
		wantKind error
		wantCode string
	}{
		{
			name:     "plain validation",
			err:      errs.Validation("No order items provided"),
			wantKind: errs.ErrValidation,
			wantCode: "VALIDATION_ERROR",
		},
		{
			name:     "wrapped not found",
			err:      fmt.Errorf("ordersvc.GetByCode: %w", errs.New(errs.ErrNotFound, "ORDER_NOT_FOUND", "Order not found")),
			wantKind: errs.ErrNotFound,
			wantCode: "ORDER_NOT_FOUND",
		},
		{
			name:     "unavailable with cause",
			err:      errs.Wrap(errs.ErrUnavailable, "STORE_UNAVAILABLE", cause),
			wantKind: errs.ErrUnavailable,
			wantCode: "STORE_UNAVAILABLE",
		},
		{
			name: "unclassified",
			err:  errors.New("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, errs.KindOf(tt.err))
			assert.Equal(t, tt.wantCode, errs.CodeOf(tt.err))
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	err := fmt.Errorf("repo: %w", errs.Wrap(errs.ErrUnavailable, "STORE_UNAVAILABLE", cause))

	assert.ErrorIs(t, err, cause)
	assert.True(t, errs.IsRetryable(err))
	assert.Equal(t, "dial tcp: i/o timeout", errs.MessageOf(err))
}

func TestValidationIsNotRetryable(t *testing.T) {
	assert.False(t, errs.IsRetryable(errs.Validation("bad")))
}
