package createproduct

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/product"
	"github.com/corray333/backend-labs/meatshop/internal/transport/http/converters"
	"github.com/corray333/backend-labs/meatshop/pkg/http/response"
)

type service interface {
	Create(ctx context.Context, p product.Product) (product.Product, error)
}

// CreateProduct adds a product to the catalogue.
func CreateProduct(w http.ResponseWriter, r *http.Request, service service) {
	req := converters.ProductRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Error decoding request body for create product", "error", err)
		response.BadRequest(w, "Invalid request body")

		return
	}

	created, err := service.Create(r.Context(), req.ToModel())
	if err != nil {
		response.Error(w, err)

		return
	}

	response.Created(w, created)
}
