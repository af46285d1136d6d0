package updateproduct

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/product"
	"github.com/corray333/backend-labs/meatshop/internal/transport/http/converters"
	"github.com/corray333/backend-labs/meatshop/pkg/http/response"
	"github.com/go-chi/chi/v5"
)

type service interface {
	Update(ctx context.Context, id string, patch product.Patch) (product.Product, error)
}

// UpdateProduct changes the fields present in the body. A weightVariants list replaces the stored one.
func UpdateProduct(w http.ResponseWriter, r *http.Request, service service) {
	req := converters.ProductPatchRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Error decoding request body for update product", "error", err)
		response.BadRequest(w, "Invalid request body")

		return
	}

	updated, err := service.Update(r.Context(), chi.URLParam(r, "id"), req.ToPatch())
	if err != nil {
		response.Error(w, err)

		return
	}

	response.OK(w, updated)
}
