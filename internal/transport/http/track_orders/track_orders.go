package trackorders

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/order"
	"github.com/corray333/backend-labs/meatshop/pkg/http/response"
	"github.com/go-chi/chi/v5"
)

type service interface {
	ListByPhone(ctx context.Context, phone string) ([]order.Order, error)
}

// TrackOrders lists the latest orders placed with a phone number.
func TrackOrders(w http.ResponseWriter, r *http.Request, service service) {
	orders, err := service.ListByPhone(r.Context(), chi.URLParam(r, "phone"))
	if err != nil {
		response.Error(w, err)

		return
	}

	response.List(w, orders, len(orders))
}
