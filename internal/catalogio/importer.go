package catalogio

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/guttosm/cart-service/internal/domain/model"
	"golang.org/x/sync/errgroup"
)

// ProductSink receives imported products.
type ProductSink interface {
	SaveProduct(ctx context.Context, product *model.Product) error
}

// ProductSource pages through a catalog.
type ProductSource interface {
	ListProducts(ctx context.Context, limit, offset int) ([]model.Product, error)
}

// Import saves products with at most concurrency writes in flight. The first
// failure cancels the rest. It returns how many products were saved.
func Import(ctx context.Context, sink ProductSink, products []model.Product, concurrency int) (int, error) {
	if concurrency <= 0 {
		concurrency = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var saved int64
	for i := range products {
		p := &products[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := sink.SaveProduct(ctx, p); err != nil {
				return fmt.Errorf("import %s: %w", p.ID, err)
			}
			atomic.AddInt64(&saved, 1)
			return nil
		})
	}

	err := g.Wait()
	return int(atomic.LoadInt64(&saved)), err
}

// ExportAll reads the whole catalog from source, pageSize products at a time.
func ExportAll(ctx context.Context, source ProductSource, pageSize int) ([]model.Product, error) {
	if pageSize <= 0 {
		pageSize = 100
	}

	var all []model.Product
	for offset := 0; ; offset += pageSize {
		page, err := source.ListProducts(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}
