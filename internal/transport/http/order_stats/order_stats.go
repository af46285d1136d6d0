package orderstats

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/order"
	"github.com/corray333/backend-labs/meatshop/pkg/http/response"
)

type service interface {
	Stats(ctx context.Context) (order.Stats, error)
}

// OrderStats returns the admin dashboard aggregates.
func OrderStats(w http.ResponseWriter, r *http.Request, service service) {
	stats, err := service.Stats(r.Context())
	if err != nil {
		response.Error(w, err)

		return
	}

	response.OK(w, stats)
}
