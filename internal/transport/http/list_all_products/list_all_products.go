package listallproducts

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/product"
	"github.com/corray333/backend-labs/meatshop/pkg/http/response"
)

type service interface {
	ListAll(ctx context.Context) ([]product.Product, error)
}

// ListAllProducts returns every product, available or not.
func ListAllProducts(w http.ResponseWriter, r *http.Request, service service) {
	products, err := service.ListAll(r.Context())
	if err != nil {
		response.Error(w, err)

		return
	}

	response.List(w, products, len(products))
}
