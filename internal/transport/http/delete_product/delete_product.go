package deleteproduct

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/meatshop/pkg/http/response"
	"github.com/go-chi/chi/v5"
)

type service interface {
	Delete(ctx context.Context, id string) error
}

func DeleteProduct(w http.ResponseWriter, r *http.Request, service service) {
	if err := service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.Error(w, err)

		return
	}

	response.Message(w, "Product deleted successfully")
}
