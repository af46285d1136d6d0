package listproducts

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/product"
	"github.com/corray333/backend-labs/meatshop/internal/service/services/catalogsvc"
	"github.com/corray333/backend-labs/meatshop/pkg/http/response"
	"github.com/gorilla/schema"
)

type service interface {
	ListAvailable(ctx context.Context, filter catalogsvc.Filter) ([]product.Product, error)
}

type queryProductsRequest struct {
	Category   string `schema:"category,omitempty"`
	BestSeller string `schema:"bestSeller,omitempty"`
}

// ToModel keeps the storefront convention: category=all and any bestSeller other than "true" do not filter.
func (q *queryProductsRequest) ToModel() catalogsvc.Filter {
	filter := catalogsvc.Filter{}
	if q.Category != "all" {
		filter.Category = q.Category
	}
	if q.BestSeller == "true" {
		bestSeller := true
		filter.BestSeller = &bestSeller
	}

	return filter
}

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}()

// ListProducts returns the available products for the storefront.
func ListProducts(w http.ResponseWriter, r *http.Request, service service) {
	query := &queryProductsRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		slog.Error("Error decoding request", "error", err)
		response.BadRequest(w, "Invalid query parameters")

		return
	}

	products, err := service.ListAvailable(r.Context(), query.ToModel())
	if err != nil {
		response.Error(w, err)

		return
	}

	response.List(w, products, len(products))
}
