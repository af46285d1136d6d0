package toggleavailability

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/product"
	"github.com/corray333/backend-labs/meatshop/pkg/http/response"
	"github.com/go-chi/chi/v5"
)

type service interface {
	ToggleAvailability(ctx context.Context, id string) (product.Product, error)
}

// ToggleAvailability hides or shows a product on the storefront.
func ToggleAvailability(w http.ResponseWriter, r *http.Request, service service) {
	p, err := service.ToggleAvailability(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)

		return
	}

	response.OK(w, p)
}
