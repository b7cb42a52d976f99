package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/logger"
	"github.com/guttosm/cart-service/internal/metrics"
	"github.com/guttosm/cart-service/internal/repository"
	"github.com/guttosm/cart-service/internal/service/cache"
)

// CatalogService reads and writes products through an optional cache.
type CatalogService interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]model.Product, error)
	SaveProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// CatalogServiceImpl implements CatalogService.
type CatalogServiceImpl struct {
	repo  repository.ProductRepository
	cache cache.ProductCache
	fills fillGuard
}

// NewCatalogService creates a catalog service. productCache may be nil.
func NewCatalogService(repo repository.ProductRepository, productCache cache.ProductCache) *CatalogServiceImpl {
	return &CatalogServiceImpl{repo: repo, cache: productCache}
}

// GetProduct returns the product with id or ErrProductNotFound.
func (s *CatalogServiceImpl) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}

	if s.cache != nil {
		p, err := s.cache.Get(ctx, id)
		switch {
		case err == nil:
			metrics.RecordCacheOperation("get", "hit")
			return p, nil
		case errors.Is(err, cache.ErrMiss):
			metrics.RecordCacheOperation("get", "miss")
		default:
			metrics.RecordCacheOperation("get", "error")
			log := logger.Logger()
			log.Warn().Err(err).Str("product_id", id).Msg("Product cache read failed")
		}
	}

	shard := s.fills.shard(id)
	gen := shard.generation()

	p, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}

	if s.cache != nil {
		stored, err := shard.fill(gen, func() error { return s.cache.Set(ctx, p) })
		switch {
		case err != nil:
			metrics.RecordCacheOperation("set", "error")
		case !stored:
			metrics.RecordCacheOperation("set", "stale")
		default:
			metrics.RecordCacheOperation("set", "ok")
		}
	}
	return p, nil
}

// ListProducts pages through the catalog. It bypasses the cache.
func (s *CatalogServiceImpl) ListProducts(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// SaveProduct validates and stores product, then evicts its cache entry.
func (s *CatalogServiceImpl) SaveProduct(ctx context.Context, product *model.Product) error {
	if s.repo == nil {
		return ErrRepositoryNotConfigured
	}
	if product == nil {
		return ErrNilProduct
	}
	if err := product.Validate(); err != nil {
		return err
	}

	if err := s.repo.Upsert(ctx, product); err != nil {
		return fmt.Errorf("save product %s: %w", product.ID, err)
	}
	s.evict(ctx, product.ID)
	return nil
}

// DeleteProduct removes the product and evicts its cache entry.
func (s *CatalogServiceImpl) DeleteProduct(ctx context.Context, id string) error {
	if s.repo == nil {
		return ErrRepositoryNotConfigured
	}

	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	s.evict(ctx, id)
	return nil
}

func (s *CatalogServiceImpl) evict(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.fills.shard(id).invalidate(func() error { return s.cache.Delete(ctx, id) }); err != nil {
		metrics.RecordCacheOperation("delete", "error")
		log := logger.Logger()
		log.Warn().Err(err).Str("product_id", id).Msg("Product cache eviction failed")
		return
	}
	metrics.RecordCacheOperation("delete", "ok")
}

const fillShards = 32

// fillGuard orders cache fills against catalog writes. A read that loaded
// a product before a write to the same shard finished does not store it,
// so a stale product is never cached after its eviction.
type fillGuard struct {
	shards [fillShards]fillShard
}

type fillShard struct {
	mu  sync.Mutex
	gen uint64
}

func (g *fillGuard) shard(id string) *fillShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &g.shards[h.Sum32()%fillShards]
}

func (f *fillShard) generation() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gen
}

// fill runs set only if no write happened since gen was read.
func (f *fillShard) fill(gen uint64, set func() error) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gen != gen {
		return false, nil
	}
	return true, set()
}

func (f *fillShard) invalidate(del func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	return del()
}

// ValidateSelection checks a variant selection against product before it
// reaches a cart. Poster selections must name a size the product offers.
// A size without a poster type is rejected rather than silently ignored.
func ValidateSelection(product *model.Product, productType model.ProductType, posterSize string) error {
	if product == nil {
		return ErrNilProduct
	}
	if !productType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSelection, productType)
	}
	switch productType {
	case model.ProductTypePoster:
		if posterSize == "" || !product.HasPosterSize(posterSize) {
			return fmt.Errorf("%w: %q", ErrUnknownPosterSize, posterSize)
		}
	default:
		if posterSize != "" {
			return fmt.Errorf("%w: poster size requires product type %q", ErrInvalidSelection, model.ProductTypePoster)
		}
	}
	return nil
}
