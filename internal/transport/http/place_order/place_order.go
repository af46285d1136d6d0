package placeorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/order"
	"github.com/corray333/backend-labs/meatshop/pkg/http/middleware/auth"
	"github.com/corray333/backend-labs/meatshop/pkg/http/response"
)

// service is an interface for the service layer.
type service interface {
	PlaceOrder(ctx context.Context, in order.PlaceOrderInput) (order.Order, error)
}

// PlaceOrder handles checkout. Guests may order; a signed-in customer is recorded on the order.
func PlaceOrder(w http.ResponseWriter, r *http.Request, service service) {
	in := order.PlaceOrderInput{}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		slog.Error("Error decoding request body for place order", "error", err)
		response.BadRequest(w, "Invalid request body")

		return
	}

	if u, ok := auth.UserFromContext(r.Context()); ok {
		in.UserID = &u.ID
	}

	created, err := service.PlaceOrder(r.Context(), in)
	if err != nil {
		response.Error(w, err)

		return
	}

	response.Created(w, created)
}
