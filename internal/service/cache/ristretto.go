package cache

import (
	"context"

	"github.com/dgraph-io/ristretto"
	"github.com/guttosm/cart-service/internal/domain/model"
)

// Ristretto is an in-process ProductCache.
type Ristretto struct {
	cache *ristretto.Cache
	cfg   Config
}

// NewRistretto creates an in-process cache holding up to cfg.Size products.
func NewRistretto(cfg Config) (*Ristretto, error) {
	defaults := DefaultConfig()
	if cfg.Size <= 0 {
		cfg.Size = defaults.Size
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaults.TTL
	}

	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        int64(cfg.Size) * 10,
		MaxCost:            int64(cfg.Size),
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &Ristretto{cache: c, cfg: cfg}, nil
}

// Get returns a copy of the cached product or ErrMiss.
func (r *Ristretto) Get(_ context.Context, id string) (*model.Product, error) {
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, ErrMiss
	}
	p, ok := v.(*model.Product)
	if !ok {
		return nil, ErrMiss
	}
	return p.Clone(), nil
}

// Set caches a copy of product. Admission is asynchronous and may be refused.
func (r *Ristretto) Set(_ context.Context, product *model.Product) error {
	r.cache.SetWithTTL(product.ID, product.Clone(), 1, r.cfg.TTL)
	return nil
}

// Delete evicts id.
func (r *Ristretto) Delete(_ context.Context, id string) error {
	r.cache.Del(id)
	return nil
}

// Wait blocks until buffered writes are applied.
func (r *Ristretto) Wait() {
	r.cache.Wait()
}

// Close stops the cache goroutines.
func (r *Ristretto) Close() error {
	r.cache.Close()
	return nil
}
