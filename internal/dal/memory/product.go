package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/corray333/backend-labs/meatshop/internal/service/models/product"
	"github.com/google/uuid"
)

// ProductRepository stores products in memory.
type ProductRepository struct {
	store *Store
	work  *UnitOfWork
}

func (r *ProductRepository) Insert(_ context.Context, p product.Product) (product.Product, error) {
	defer r.work.serialize()()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.data.products[p.ID]; ok {
		return product.Product{}, fmt.Errorf("productrepo.Insert: %w", errs.New(errs.ErrConflict, "DUPLICATE_KEY", "product already exists"))
	}

	r.store.data.products[p.ID] = cloneProduct(p)

	return cloneProduct(p), nil
}

func (r *ProductRepository) Update(_ context.Context, p product.Product) (product.Product, error) {
	defer r.work.serialize()()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.data.products[p.ID]
	if !ok {
		return product.Product{}, fmt.Errorf("productrepo.Update: %w", errs.ErrNotFound)
	}

	p.CreatedAt = existing.CreatedAt
	if p.WeightVariants == nil {
		p.WeightVariants = existing.WeightVariants
	}
	r.store.data.products[p.ID] = cloneProduct(p)

	return cloneProduct(p), nil
}

func (r *ProductRepository) Delete(_ context.Context, id uuid.UUID) error {
	defer r.work.serialize()()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.data.products[id]; !ok {
		return fmt.Errorf("productrepo.Delete: %w", errs.ErrNotFound)
	}

	delete(r.store.data.products, id)

	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id uuid.UUID) (product.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.data.products[id]
	if !ok {
		return product.Product{}, fmt.Errorf("productrepo.GetByID: %w", errs.ErrNotFound)
	}

	return cloneProduct(p), nil
}

func (r *ProductRepository) Query(_ context.Context, filter *product.QueryProductsModel) ([]product.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := []product.Product{}
	for _, p := range r.store.data.products {
		if len(filter.Ids) > 0 && !slices.Contains(filter.Ids, p.ID) {
			continue
		}
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		if filter.IsBestSeller != nil && p.IsBestSeller != *filter.IsBestSeller {
			continue
		}
		if filter.IsAvailable != nil && p.IsAvailable != *filter.IsAvailable {
			continue
		}
		result = append(result, cloneProduct(p))
	}

	slices.SortFunc(result, func(a, b product.Product) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	return result, nil
}

func (r *ProductRepository) DecrementStock(_ context.Context, id uuid.UUID, weight string, qty int) (bool, error) {
	defer r.work.serialize()()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.data.products[id]
	if !ok {
		return false, nil
	}

	p = cloneProduct(p)
	for i := range p.WeightVariants {
		if p.WeightVariants[i].Weight != weight {
			continue
		}
		if p.WeightVariants[i].Stock < qty {
			return false, nil
		}

		p.WeightVariants[i].Stock -= qty
		p.UpdatedAt = time.Now()
		r.store.data.products[id] = p

		return true, nil
	}

	return false, nil
}

func (r *ProductRepository) ToggleAvailability(_ context.Context, id uuid.UUID, updatedAt time.Time) (product.Product, error) {
	defer r.work.serialize()()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.data.products[id]
	if !ok {
		return product.Product{}, fmt.Errorf("productrepo.ToggleAvailability: %w", errs.ErrNotFound)
	}

	p = cloneProduct(p)
	p.IsAvailable = !p.IsAvailable
	p.UpdatedAt = updatedAt
	r.store.data.products[id] = p

	return cloneProduct(p), nil
}
