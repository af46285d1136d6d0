package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "meatshop"

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewServerMetrics(reg prometheus.Registerer, service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler", "method"})

	reg.MustRegister(requests, latency)

	return &ServerMetrics{Requests: requests, LatencyMS: latency}
}

// Middleware records every request under its chi route pattern.
func (m *ServerMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		handler := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			handler = rctx.RoutePattern()
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.Requests.WithLabelValues(handler, r.Method, strconv.Itoa(status)).Inc()
		m.LatencyMS.WithLabelValues(handler, r.Method).Observe(float64(time.Since(start).Milliseconds()))
	})
}

// OrderMetrics counts order domain events. A nil *OrderMetrics records nothing.
type OrderMetrics struct {
	Placed      prometheus.Counter
	Revenue     prometheus.Counter
	Rejected    *prometheus.CounterVec
	Transitions *prometheus.CounterVec
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "placed_total",
		Help:      "Orders placed successfully.",
	})
	revenue := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "placed_amount_total",
		Help:      "Sum of total amounts of placed orders.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "rejected_total",
		Help:      "Order placements rejected, by error code.",
	}, []string{"reason"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "status_transitions_total",
		Help:      "Order status changes.",
	}, []string{"from", "to"})

	reg.MustRegister(placed, revenue, rejected, transitions)

	return &OrderMetrics{Placed: placed, Revenue: revenue, Rejected: rejected, Transitions: transitions}
}

func (m *OrderMetrics) OrderPlaced(amount float64) {
	if m == nil {
		return
	}
	m.Placed.Inc()
	m.Revenue.Add(amount)
}

func (m *OrderMetrics) OrderRejected(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "INTERNAL"
	}
	m.Rejected.WithLabelValues(reason).Inc()
}

func (m *OrderMetrics) StatusChanged(from, to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(from, to).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
