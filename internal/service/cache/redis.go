package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "cart-service:product:"

// Redis is a ProductCache shared between service instances.
type Redis struct {
	client redis.UniversalClient
	cfg    Config
}

// NewRedis creates a cache over client. The client is closed by Close.
func NewRedis(client redis.UniversalClient, cfg Config) *Redis {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	return &Redis{client: client, cfg: cfg}
}

// Get returns the cached product or ErrMiss.
func (r *Redis) Get(ctx context.Context, id string) (*model.Product, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}

	var p model.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		// A corrupt entry is treated as absent and dropped.
		_ = r.client.Del(ctx, redisKeyPrefix+id).Err()
		return nil, ErrMiss
	}
	return &p, nil
}

// Set stores product with the configured TTL.
func (r *Redis) Set(ctx context.Context, product *model.Product) error {
	raw, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisKeyPrefix+product.ID, raw, r.cfg.TTL).Err()
}

// Delete evicts id.
func (r *Redis) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, redisKeyPrefix+id).Err()
}

// HealthCheck pings the server.
func (r *Redis) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
