package order_test

import (
	"testing"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range order.Statuses() {
		parsed, err := order.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	for _, bad := range []string{"", "shipped", "PENDING", "all"} {
		_, err := order.ParseStatus(bad)
		assert.ErrorIs(t, err, errs.ErrValidation, bad)
	}
}

func TestStatusNext(t *testing.T) {
	tests := []struct {
		from   order.Status
		want   order.Status
		wantOK bool
	}{
		{order.StatusPending, order.StatusCutting, true},
		{order.StatusCutting, order.StatusOutForDelivery, true},
		{order.StatusOutForDelivery, order.StatusDelivered, true},
		{order.StatusDelivered, "", false},
		{order.StatusCancelled, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			next, ok := tt.from.Next()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, next)
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	legal := map[[2]order.Status]bool{
		{order.StatusPending, order.StatusCutting}:               true,
		{order.StatusCutting, order.StatusOutForDelivery}:        true,
		{order.StatusOutForDelivery, order.StatusDelivered}:      true,
		{order.StatusPending, order.StatusCancelled}:             true,
		{order.StatusCutting, order.StatusCancelled}:             true,
		{order.StatusOutForDelivery, order.StatusCancelled}:      true,
	}

	for _, from := range order.Statuses() {
		for _, to := range order.Statuses() {
			want := legal[[2]order.Status{from, to}]
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)

			err := from.ValidateTransition(to)
			if want {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, "ILLEGAL_TRANSITION", errs.CodeOf(err))
			}
		}
	}

	assert.True(t, order.StatusDelivered.IsTerminal())
	assert.True(t, order.StatusCancelled.IsTerminal())
	assert.False(t, order.StatusPending.IsTerminal())
}
