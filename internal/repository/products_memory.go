package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/guttosm/cart-service/internal/domain/model"
)

// MemoryProductRepository keeps products in a map. Values are cloned on the
// way in and out so callers cannot mutate stored products.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]*model.Product
	now      func() time.Time
}

// NewMemoryProductRepository creates a repository holding seed.
func NewMemoryProductRepository(seed ...model.Product) *MemoryProductRepository {
	r := &MemoryProductRepository{
		products: make(map[string]*model.Product, len(seed)),
		now:      time.Now,
	}
	for i := range seed {
		_ = r.Upsert(context.Background(), &seed[i])
	}
	return r
}

// Get returns the product with id or ErrNotFound.
func (r *MemoryProductRepository) Get(_ context.Context, id string) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

// List returns products ordered by name, then id.
func (r *MemoryProductRepository) List(_ context.Context, limit, offset int) ([]model.Product, error) {
	r.mu.RLock()
	products := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		products = append(products, *p.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(products, func(i, j int) bool {
		if products[i].Name != products[j].Name {
			return products[i].Name < products[j].Name
		}
		return products[i].ID < products[j].ID
	})

	if offset > 0 {
		if offset >= len(products) {
			return []model.Product{}, nil
		}
		products = products[offset:]
	}
	if limit > 0 && limit < len(products) {
		products = products[:limit]
	}
	return products, nil
}

// Upsert stores a copy of product.
func (r *MemoryProductRepository) Upsert(_ context.Context, product *model.Product) error {
	stored := product.Clone()
	now := r.now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.products[product.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.products[product.ID] = stored
	return nil
}

// Delete removes the product or returns ErrNotFound.
func (r *MemoryProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// Len returns the number of stored products.
func (r *MemoryProductRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}
