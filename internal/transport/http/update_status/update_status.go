package updatestatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/order"
	"github.com/corray333/backend-labs/meatshop/pkg/http/response"
	"github.com/go-chi/chi/v5"
)

type service interface {
	UpdateStatus(ctx context.Context, code string, target string) (order.Order, error)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves an order along its lifecycle.
func UpdateStatus(w http.ResponseWriter, r *http.Request, service service) {
	req := updateStatusRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Error decoding request body for update status", "error", err)
		response.BadRequest(w, "Invalid request body")

		return
	}

	updated, err := service.UpdateStatus(r.Context(), chi.URLParam(r, "orderCode"), req.Status)
	if err != nil {
		response.Error(w, err)

		return
	}

	response.OK(w, updated)
}
