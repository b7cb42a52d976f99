package repository

import (
	"context"
	"errors"

	"github.com/guttosm/cart-service/internal/domain/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ProductRepository stores catalog products.
type ProductRepository interface {
	Get(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context, limit, offset int) ([]model.Product, error)
	Upsert(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
}

// OrderRepository stores orders created at checkout.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	Get(ctx context.Context, id string) (*model.Order, error)
	ListBySession(ctx context.Context, sessionID string, limit int) ([]model.Order, error)
}

// LogsRepositoryInterface stores audit log documents.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *LogEntryDocument) error
	CreateMany(ctx context.Context, entries []*LogEntryDocument) error
	Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error)
	Count(ctx context.Context, opts LogQueryOptions) (int64, error)
}

// HealthChecker is implemented by stores that can report connectivity.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// IsBreakerSuccess reports whether err leaves the store healthy.
// Missing records are an answer, not an outage.
func IsBreakerSuccess(err error) bool {
	return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
}
