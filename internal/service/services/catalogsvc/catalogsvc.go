package catalogsvc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/meatshop/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/meatshop/internal/dal/postgres"
	"github.com/corray333/backend-labs/meatshop/internal/dal/uow"
	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/product"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultQueryTimeout = 5 * time.Second

// UnitOfWork is the transactional scope the catalogue writes run in.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	ProductRepository() iproductrepo.IProductRepository
}

// CatalogService manages the product catalogue.
type CatalogService struct {
	newUOW       func() UnitOfWork
	now          func() time.Time
	queryTimeout time.Duration
	tracer       trace.Tracer
}

// option is a function that configures the CatalogService.
type option func(*CatalogService)

// MustNewCatalogService creates a new CatalogService.
func MustNewCatalogService(opts ...option) *CatalogService {
	s := &CatalogService{
		now:          time.Now,
		queryTimeout: defaultQueryTimeout,
		tracer:       otel.Tracer("meatshop/catalogsvc"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		panic("catalogsvc: no unit of work configured")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the CatalogService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *CatalogService) {
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
	return func(s *CatalogService) {
		s.newUOW = newUOW
	}
}

// WithClock overrides the time source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *CatalogService) {
		s.now = now
	}
}

// Filter narrows the public product listing.
type Filter struct {
	Category   string `schema:"category"`
	BestSeller *bool  `schema:"bestSeller"`
}

func errProductNotFound() error {
	return errs.New(errs.ErrNotFound, "PRODUCT_NOT_FOUND", "Product not found")
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, errProductNotFound()
	}

	return parsed, nil
}

func notFound(err error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return errProductNotFound()
	}

	return err
}

// ListAvailable returns the available products, newest first.
func (s *CatalogService) ListAvailable(ctx context.Context, filter Filter) ([]product.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListAvailable")
	defer span.End()

	available := true
	query := &product.QueryProductsModel{
		IsAvailable:  &available,
		IsBestSeller: filter.BestSeller,
	}
	if filter.Category != "" {
		category, err := product.ParseCategory(filter.Category)
		if err != nil {
			return nil, err
		}
		query.Category = &category
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	return s.newUOW().ProductRepository().Query(ctx, query)
}

// ListAll returns every product regardless of availability, newest first.
func (s *CatalogService) ListAll(ctx context.Context) ([]product.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListAll")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	return s.newUOW().ProductRepository().Query(ctx, &product.QueryProductsModel{})
}

// Get returns a single product.
func (s *CatalogService) Get(ctx context.Context, id string) (product.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Get")
	defer span.End()

	productID, err := parseID(id)
	if err != nil {
		return product.Product{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	p, err := s.newUOW().ProductRepository().GetByID(ctx, productID)
	if err != nil {
		return product.Product{}, notFound(err)
	}

	return p, nil
}

// Create validates and stores a new product.
func (s *CatalogService) Create(ctx context.Context, p product.Product) (product.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Create")
	defer span.End()

	p.Normalize()
	if err := p.Validate(); err != nil {
		return product.Product{}, err
	}

	now := s.now()
	p.ID = uuid.New()
	p.CreatedAt = now
	p.UpdatedAt = now

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return product.Product{}, err
	}
	defer func() {
		_ = work.Rollback(ctx)
	}()

	created, err := work.ProductRepository().Insert(ctx, p)
	if err != nil {
		return product.Product{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return product.Product{}, err
	}

	slog.Info("Product created", "product_id", created.ID, "name", created.Name)

	return created, nil
}

// Update overlays the provided fields on the stored product and validates the result.
// Stored variants are rewritten only when the patch carries a variant list.
func (s *CatalogService) Update(ctx context.Context, id string, patch product.Patch) (product.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Update")
	defer span.End()

	productID, err := parseID(id)
	if err != nil {
		return product.Product{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return product.Product{}, err
	}
	defer func() {
		_ = work.Rollback(ctx)
	}()

	current, err := work.ProductRepository().GetByID(ctx, productID)
	if err != nil {
		return product.Product{}, notFound(err)
	}

	p := patch.Apply(current)
	p.Normalize()
	if err := p.Validate(); err != nil {
		return product.Product{}, err
	}

	p.UpdatedAt = s.now()
	if patch.WeightVariants == nil {
		p.WeightVariants = nil
	}

	if _, err := work.ProductRepository().Update(ctx, p); err != nil {
		return product.Product{}, notFound(err)
	}

	updated, err := work.ProductRepository().GetByID(ctx, productID)
	if err != nil {
		return product.Product{}, notFound(err)
	}

	if err := work.Commit(ctx); err != nil {
		return product.Product{}, err
	}

	slog.Info("Product updated", "product_id", updated.ID)

	return updated, nil
}

// Delete removes a product. Order line items keep their snapshot.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Delete")
	defer span.End()

	productID, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.newUOW().ProductRepository().Delete(ctx, productID); err != nil {
		return notFound(err)
	}

	slog.Info("Product deleted", "product_id", productID)

	return nil
}

// ToggleAvailability flips the availability flag of a product.
func (s *CatalogService) ToggleAvailability(ctx context.Context, id string) (product.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ToggleAvailability")
	defer span.End()

	productID, err := parseID(id)
	if err != nil {
		return product.Product{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	p, err := s.newUOW().ProductRepository().ToggleAvailability(ctx, productID, s.now())
	if err != nil {
		return product.Product{}, notFound(err)
	}

	return p, nil
}
