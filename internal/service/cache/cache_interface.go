// Package cache holds the product caches that sit in front of the catalog store.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/cart-service/internal/domain/model"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// ProductCache caches catalog products by id. Implementations must return
// copies so cached products cannot be mutated by callers.
type ProductCache interface {
	Get(ctx context.Context, id string) (*model.Product, error)
	Set(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Config sizes a cache.
type Config struct {
	// Size is the maximum number of products kept in process.
	Size int
	// TTL bounds how long an entry is served.
	TTL time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{Size: 1000, TTL: 5 * time.Minute}
}
