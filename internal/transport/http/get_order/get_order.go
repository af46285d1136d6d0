package getorder

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/order"
	"github.com/corray333/backend-labs/meatshop/pkg/http/response"
	"github.com/go-chi/chi/v5"
)

type service interface {
	GetByCode(ctx context.Context, code string) (order.Order, error)
}

// GetOrder returns a single order by its public code.
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	o, err := service.GetByCode(r.Context(), chi.URLParam(r, "orderCode"))
	if err != nil {
		response.Error(w, err)

		return
	}

	response.OK(w, o)
}
