package listorders

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/meatshop/internal/service/services/ordersvc"
	"github.com/corray333/backend-labs/meatshop/pkg/http/response"
	"github.com/gorilla/schema"
)

type service interface {
	List(ctx context.Context, filter ordersvc.ListFilter) (ordersvc.Page, error)
}

type queryOrdersRequest struct {
	Status string `schema:"status,omitempty"`
	Page   int    `schema:"page,omitempty"`
	Limit  int    `schema:"limit,omitempty"`
}

func (q *queryOrdersRequest) ToModel() ordersvc.ListFilter {
	return ordersvc.ListFilter{
		Status: q.Status,
		Page:   q.Page,
		Limit:  q.Limit,
	}
}

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}()

// ListOrders returns one page of orders for the admin dashboard.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	query := &queryOrdersRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		slog.Error("Error decoding request", "error", err)
		response.BadRequest(w, "Invalid query parameters")

		return
	}

	page, err := service.List(r.Context(), query.ToModel())
	if err != nil {
		response.Error(w, err)

		return
	}

	response.Paged(w, page.Orders, len(page.Orders), page.Total, page.Page, page.Pages)
}
