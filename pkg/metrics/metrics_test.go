package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/corray333/backend-labs/meatshop/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewServerMetrics(reg, "test")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/orders/{orderCode}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, code := range []string{"MS1", "MS2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders/"+code, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("/api/orders/{orderCode}", "GET", "404")))
}

func TestOrderMetrics(t *testing.T) {
	var nilMetrics *metrics.OrderMetrics
	nilMetrics.OrderPlaced(10)
	nilMetrics.OrderRejected("INSUFFICIENT_STOCK")

	m := metrics.NewOrderMetrics(prometheus.NewRegistry())
	m.OrderPlaced(700)
	m.OrderRejected("INSUFFICIENT_STOCK")
	m.OrderRejected("")
	m.StatusChanged("pending", "cutting")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Placed))
	assert.Equal(t, 700.0, testutil.ToFloat64(m.Revenue))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejected.WithLabelValues("INTERNAL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("pending", "cutting")))
}
