package ordersvc

import (
	"context"
	"time"

	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/iorderitemrepo"
	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/meatshop/internal/dal/postgres"
	"github.com/corray333/backend-labs/meatshop/internal/dal/uow"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/order"
	"github.com/corray333/backend-labs/meatshop/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTrackLimit   = 10
	defaultCodeRetries  = 5
	defaultQueryTimeout = 5 * time.Second
	defaultPageLimit    = 20
	maxPageLimit        = 100
	defaultMaxRetries   = 10
)

// UnitOfWork is the transactional boundary the service runs its store calls in.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	ProductRepository() iproductrepo.IProductRepository
	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// OrderService places orders and drives their lifecycle.
type OrderService struct {
	newUOW            func() UnitOfWork
	now               func() time.Time
	newCode           order.CodeGenerator
	trackLimit        int
	codeRetries       int
	strictTransitions bool
	queryTimeout      time.Duration
	eventsExchange    string
	metrics           *metrics.OrderMetrics
	tracer            trace.Tracer
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		now:               time.Now,
		newCode:           order.NewCode,
		trackLimit:        defaultTrackLimit,
		codeRetries:       defaultCodeRetries,
		strictTransitions: true,
		queryTimeout:      defaultQueryTimeout,
		tracer:            otel.Tracer("meatshop/ordersvc"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		panic("ordersvc: no unit of work configured")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.newUOW = func() UnitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
		s.queryTimeout = pgClient.QueryTimeout()
	}
}

// WithUnitOfWork sets a custom unit of work factory.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWork(newUOW func() UnitOfWork) option {
	return func(s *OrderService) {
		s.newUOW = newUOW
	}
}

// WithClock overrides the time source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *OrderService) {
		s.now = now
	}
}

// WithCodeGenerator overrides how order codes are produced.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCodeGenerator(gen order.CodeGenerator) option {
	return func(s *OrderService) {
		s.newCode = gen
	}
}

// WithTrackLimit bounds how many orders a phone lookup returns.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithTrackLimit(limit int) option {
	return func(s *OrderService) {
		if limit > 0 {
			s.trackLimit = limit
		}
	}
}

// WithCodeRetries bounds how many times a colliding order code is regenerated.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCodeRetries(retries int) option {
	return func(s *OrderService) {
		if retries > 0 {
			s.codeRetries = retries
		}
	}
}

// WithStrictTransitions toggles status transition checks. When off, any status may overwrite any other.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithStrictTransitions(strict bool) option {
	return func(s *OrderService) {
		s.strictTransitions = strict
	}
}

// WithQueryTimeout bounds every unit of store work.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithQueryTimeout(timeout time.Duration) option {
	return func(s *OrderService) {
		if timeout > 0 {
			s.queryTimeout = timeout
		}
	}
}

// WithEvents enables order events written to the outbox for the given exchange.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithEvents(exchange string) option {
	return func(s *OrderService) {
		s.eventsExchange = exchange
	}
}

// WithMetrics sets the order domain counters.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithMetrics(m *metrics.OrderMetrics) option {
	return func(s *OrderService) {
		s.metrics = m
	}
}

func (s *OrderService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}
