package httptransport

import (
	"context"
	_ "embed"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/corray333/backend-labs/meatshop/internal/service/models/order"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/product"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/user"
	"github.com/corray333/backend-labs/meatshop/internal/service/services/catalogsvc"
	"github.com/corray333/backend-labs/meatshop/internal/service/services/identitysvc"
	"github.com/corray333/backend-labs/meatshop/internal/service/services/ordersvc"
	createadmin "github.com/corray333/backend-labs/meatshop/internal/transport/http/create_admin"
	createproduct "github.com/corray333/backend-labs/meatshop/internal/transport/http/create_product"
	deleteproduct "github.com/corray333/backend-labs/meatshop/internal/transport/http/delete_product"
	getorder "github.com/corray333/backend-labs/meatshop/internal/transport/http/get_order"
	getproduct "github.com/corray333/backend-labs/meatshop/internal/transport/http/get_product"
	listallproducts "github.com/corray333/backend-labs/meatshop/internal/transport/http/list_all_products"
	listorders "github.com/corray333/backend-labs/meatshop/internal/transport/http/list_orders"
	listproducts "github.com/corray333/backend-labs/meatshop/internal/transport/http/list_products"
	"github.com/corray333/backend-labs/meatshop/internal/transport/http/login"
	"github.com/corray333/backend-labs/meatshop/internal/transport/http/me"
	orderstats "github.com/corray333/backend-labs/meatshop/internal/transport/http/order_stats"
	placeorder "github.com/corray333/backend-labs/meatshop/internal/transport/http/place_order"
	"github.com/corray333/backend-labs/meatshop/internal/transport/http/register"
	toggleavailability "github.com/corray333/backend-labs/meatshop/internal/transport/http/toggle_availability"
	trackorders "github.com/corray333/backend-labs/meatshop/internal/transport/http/track_orders"
	updateproduct "github.com/corray333/backend-labs/meatshop/internal/transport/http/update_product"
	updateprofile "github.com/corray333/backend-labs/meatshop/internal/transport/http/update_profile"
	updatestatus "github.com/corray333/backend-labs/meatshop/internal/transport/http/update_status"
	"github.com/corray333/backend-labs/meatshop/pkg/http/middleware/auth"
	"github.com/corray333/backend-labs/meatshop/pkg/http/middleware/trace"
	"github.com/corray333/backend-labs/meatshop/pkg/http/response"
	"github.com/corray333/backend-labs/meatshop/pkg/logger"
	"github.com/corray333/backend-labs/meatshop/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

//go:embed openapi.json
var openAPIDoc []byte

type orderService interface {
	PlaceOrder(ctx context.Context, in order.PlaceOrderInput) (order.Order, error)
	GetByCode(ctx context.Context, code string) (order.Order, error)
	ListByPhone(ctx context.Context, phone string) ([]order.Order, error)
	List(ctx context.Context, filter ordersvc.ListFilter) (ordersvc.Page, error)
	Stats(ctx context.Context) (order.Stats, error)
	UpdateStatus(ctx context.Context, code string, target string) (order.Order, error)
}

type catalogService interface {
	ListAvailable(ctx context.Context, filter catalogsvc.Filter) ([]product.Product, error)
	ListAll(ctx context.Context) ([]product.Product, error)
	Get(ctx context.Context, id string) (product.Product, error)
	Create(ctx context.Context, p product.Product) (product.Product, error)
	Update(ctx context.Context, id string, patch product.Patch) (product.Product, error)
	Delete(ctx context.Context, id string) error
	ToggleAvailability(ctx context.Context, id string) (product.Product, error)
}

type identityService interface {
	Register(ctx context.Context, in user.Registration) (identitysvc.Session, error)
	CreateAdmin(ctx context.Context, in user.Registration) (identitysvc.Session, error)
	Login(ctx context.Context, email, password string) (identitysvc.Session, error)
	Me(ctx context.Context, id uuid.UUID) (user.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in user.ProfileUpdate) (user.User, error)
	Authenticate(ctx context.Context, token string) (user.User, error)
}

type HTTPTransport struct {
	server   *http.Server
	router   *chi.Mux
	orders   orderService
	catalog  catalogService
	identity identityService
}

func NewHTTPTransport(
	orders orderService,
	catalog catalogService,
	identity identityService,
	serverMetrics *metrics.ServerMetrics,
) *HTTPTransport {
	router := newRouter(serverMetrics)
	server := newServer(router)

	return &HTTPTransport{
		server:   server,
		router:   router,
		orders:   orders,
		catalog:  catalog,
		identity: identity,
	}
}

func (h *HTTPTransport) Run() error {
	slog.Info("Starting HTTP server", "address", h.server.Addr)

	return h.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	protect := auth.Protect(h.identity)
	adminOnly := chi.Chain(protect, auth.AdminOnly)

	h.router.Get("/metrics", metrics.Handler().ServeHTTP)
	h.router.Get("/swagger/doc.json", serveOpenAPI)
	h.router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	h.router.Route("/api", func(r chi.Router) {
		r.Get("/health", health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Post("/create-admin", h.createAdmin)
			r.With(protect).Get("/me", h.me)
			r.With(protect).Put("/profile", h.updateProfile)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.With(adminOnly...).Get("/admin/all", h.listAllProducts)
			r.Get("/{id}", h.getProduct)
			r.With(adminOnly...).Post("/", h.createProduct)
			r.With(adminOnly...).Put("/{id}", h.updateProduct)
			r.With(adminOnly...).Delete("/{id}", h.deleteProduct)
			r.With(adminOnly...).Patch("/{id}/toggle-availability", h.toggleAvailability)
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(auth.Optional(h.identity)).Post("/", h.placeOrder)
			r.Get("/track/{phone}", h.trackOrders)
			r.With(adminOnly...).Get("/admin/all", h.listOrders)
			r.With(adminOnly...).Get("/admin/stats", h.orderStats)
			r.Get("/{orderCode}", h.getOrder)
			r.With(adminOnly...).Patch("/{orderCode}/status", h.updateStatus)
		})
	})
}

type healthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(healthResponse{
		Status:    "ok",
		Message:   "Meat Shop API is running",
		Timestamp: time.Now().UTC(),
	}); err != nil {
		slog.Error("Error sending health response", "error", err)
	}
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(openAPIDoc); err != nil {
		slog.Error("Error sending openapi document", "error", err)
	}
}

func (h *HTTPTransport) placeOrder(w http.ResponseWriter, r *http.Request) {
	placeorder.PlaceOrder(w, r, h.orders)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.orders)
}

func (h *HTTPTransport) trackOrders(w http.ResponseWriter, r *http.Request) {
	trackorders.TrackOrders(w, r, h.orders)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orders)
}

func (h *HTTPTransport) orderStats(w http.ResponseWriter, r *http.Request) {
	orderstats.OrderStats(w, r, h.orders)
}

func (h *HTTPTransport) updateStatus(w http.ResponseWriter, r *http.Request) {
	updatestatus.UpdateStatus(w, r, h.orders)
}

func (h *HTTPTransport) listProducts(w http.ResponseWriter, r *http.Request) {
	listproducts.ListProducts(w, r, h.catalog)
}

func (h *HTTPTransport) listAllProducts(w http.ResponseWriter, r *http.Request) {
	listallproducts.ListAllProducts(w, r, h.catalog)
}

func (h *HTTPTransport) getProduct(w http.ResponseWriter, r *http.Request) {
	getproduct.GetProduct(w, r, h.catalog)
}

func (h *HTTPTransport) createProduct(w http.ResponseWriter, r *http.Request) {
	createproduct.CreateProduct(w, r, h.catalog)
}

func (h *HTTPTransport) updateProduct(w http.ResponseWriter, r *http.Request) {
	updateproduct.UpdateProduct(w, r, h.catalog)
}

func (h *HTTPTransport) deleteProduct(w http.ResponseWriter, r *http.Request) {
	deleteproduct.DeleteProduct(w, r, h.catalog)
}

func (h *HTTPTransport) toggleAvailability(w http.ResponseWriter, r *http.Request) {
	toggleavailability.ToggleAvailability(w, r, h.catalog)
}

func (h *HTTPTransport) register(w http.ResponseWriter, r *http.Request) {
	register.Register(w, r, h.identity)
}

func (h *HTTPTransport) login(w http.ResponseWriter, r *http.Request) {
	login.Login(w, r, h.identity)
}

func (h *HTTPTransport) createAdmin(w http.ResponseWriter, r *http.Request) {
	createadmin.CreateAdmin(w, r, h.identity)
}

func (h *HTTPTransport) me(w http.ResponseWriter, r *http.Request) {
	me.Me(w, r, h.identity)
}

func (h *HTTPTransport) updateProfile(w http.ResponseWriter, r *http.Request) {
	updateprofile.UpdateProfile(w, r, h.identity)
}

func newRouter(serverMetrics *metrics.ServerMetrics) *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(middleware.Recoverer)
	router.Use(trace.NewTraceMiddleware("meatshop"))
	if serverMetrics != nil {
		router.Use(serverMetrics.Middleware)
	}

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusNotFound, response.Envelope{
			Success: false,
			Message: "Not Found - " + r.URL.RequestURI(),
			Code:    "NOT_FOUND",
		})
	})

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:              "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
