package order_test

import (
	"testing"
	"time"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/order"
	"github.com/stretchr/testify/assert"
)

func TestFormatCode(t *testing.T) {
	day := time.Date(2026, time.March, 7, 23, 59, 0, 0, time.Local)

	assert.Equal(t, "MS2603070042", order.FormatCode(day, 42))
	assert.Equal(t, "MS2603070000", order.FormatCode(day, 0))
	assert.Equal(t, "MS2603079999", order.FormatCode(day, 9999))
}

func TestNewCodeShape(t *testing.T) {
	now := time.Date(2026, time.October, 19, 10, 0, 0, 0, time.Local)

	seen := make(map[string]struct{})
	for range 50 {
		code := order.NewCode(now)
		assert.Len(t, code, order.CodeLength)
		assert.Regexp(t, `^MS261019\d{4}$`, code)
		seen[code] = struct{}{}
	}

	// 50 draws from 10000 suffixes collide rarely; a handful of duplicates is still fine.
	assert.Greater(t, len(seen), 40)
}
