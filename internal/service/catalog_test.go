package service

import (
	"context"
	"errors"
	"testing"

	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/mocks"
	"github.com/guttosm/cart-service/internal/repository"
	"github.com/guttosm/cart-service/internal/service/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_GetProduct(t *testing.T) {
	ctx := context.Background()
	product := posterProduct("print")

	tests := []struct {
		name    string
		setup   func(repo *mocks.MockProductRepository, c *mocks.MockProductCache)
		wantErr error
	}{
		{
			name: "cache hit skips the repository",
			setup: func(_ *mocks.MockProductRepository, c *mocks.MockProductCache) {
				c.On("Get", ctx, "print").Return(product, nil)
			},
		},
		{
			name: "cache miss loads and fills",
			setup: func(repo *mocks.MockProductRepository, c *mocks.MockProductCache) {
				c.On("Get", ctx, "print").Return(nil, cache.ErrMiss)
				repo.On("Get", ctx, "print").Return(product, nil)
				c.On("Set", ctx, product).Return(nil)
			},
		},
		{
			name: "cache failure falls through",
			setup: func(repo *mocks.MockProductRepository, c *mocks.MockProductCache) {
				c.On("Get", ctx, "print").Return(nil, errors.New("redis down"))
				repo.On("Get", ctx, "print").Return(product, nil)
				c.On("Set", ctx, product).Return(errors.New("redis down"))
			},
		},
		{
			name: "not found",
			setup: func(repo *mocks.MockProductRepository, c *mocks.MockProductCache) {
				c.On("Get", ctx, "print").Return(nil, cache.ErrMiss)
				repo.On("Get", ctx, "print").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockProductRepository)
			c := new(mocks.MockProductCache)
			tt.setup(repo, c)

			got, err := NewCatalogService(repo, c).GetProduct(ctx, "print")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "print", got.ID)
			}
			repo.AssertExpectations(t)
			c.AssertExpectations(t)
		})
	}
}

func TestCatalogService_GetProductWithoutCache(t *testing.T) {
	svc := NewCatalogService(repository.NewMemoryProductRepository(*digitalProduct("d", "5")), nil)

	got, err := svc.GetProduct(context.Background(), "d")
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(dec("5")))
}

func TestCatalogService_SaveProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid product is rejected before the store", func(t *testing.T) {
		repo := new(mocks.MockProductRepository)
		err := NewCatalogService(repo, nil).SaveProduct(ctx, &model.Product{ID: "x", Price: decimal.NewFromInt(-1)})

		assert.ErrorIs(t, err, model.ErrInvalidProduct)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("save evicts cache entry", func(t *testing.T) {
		product := digitalProduct("d", "5")
		repo := new(mocks.MockProductRepository)
		c := new(mocks.MockProductCache)
		repo.On("Upsert", ctx, product).Return(nil)
		c.On("Delete", ctx, "d").Return(nil)

		require.NoError(t, NewCatalogService(repo, c).SaveProduct(ctx, product))
		repo.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		storeErr := errors.New("write failed")
		repo := new(mocks.MockProductRepository)
		repo.On("Upsert", ctx, mock.Anything).Return(storeErr)

		err := NewCatalogService(repo, nil).SaveProduct(ctx, digitalProduct("d", "5"))
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("nil product", func(t *testing.T) {
		assert.ErrorIs(t, NewCatalogService(new(mocks.MockProductRepository), nil).SaveProduct(ctx, nil), ErrNilProduct)
	})
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	ctx := context.Background()

	repo := new(mocks.MockProductRepository)
	c := new(mocks.MockProductCache)
	repo.On("Delete", ctx, "d").Return(nil).Once()
	repo.On("Delete", ctx, "d").Return(repository.ErrNotFound).Once()
	c.On("Delete", ctx, "d").Return(nil).Once()
	svc := NewCatalogService(repo, c)

	assert.NoError(t, svc.DeleteProduct(ctx, "d"))
	assert.ErrorIs(t, svc.DeleteProduct(ctx, "d"), ErrProductNotFound)
	c.AssertExpectations(t)
}

func TestCatalogService_ListProducts(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(repository.NewMemoryProductRepository(), nil)

	products, err := svc.ListProducts(ctx, -1, -5)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestCatalogService_NotConfigured(t *testing.T) {
	svc := NewCatalogService(nil, nil)

	_, err := svc.GetProduct(context.Background(), "x")
	assert.ErrorIs(t, err, ErrRepositoryNotConfigured)
}

func TestValidateSelection(t *testing.T) {
	poster := posterProduct("print")
	digital := digitalProduct("d", "5")

	tests := []struct {
		name        string
		product     *model.Product
		productType model.ProductType
		size        string
		wantErr     error
	}{
		{name: "no selection", product: digital},
		{name: "digital", product: digital, productType: model.ProductTypeDigital},
		{name: "poster with offered size", product: poster, productType: model.ProductTypePoster, size: "A4"},
		{name: "poster with unknown size", product: poster, productType: model.ProductTypePoster, size: "A0", wantErr: ErrUnknownPosterSize},
		{name: "poster without size", product: poster, productType: model.ProductTypePoster, wantErr: ErrUnknownPosterSize},
		{name: "poster type on product without table", product: digital, productType: model.ProductTypePoster, size: "A4", wantErr: ErrUnknownPosterSize},
		{name: "size without poster type", product: poster, productType: model.ProductTypeDigital, size: "A4", wantErr: ErrInvalidSelection},
		{name: "unknown type", product: poster, productType: "canvas", wantErr: ErrInvalidSelection},
		{name: "nil product", wantErr: ErrNilProduct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSelection(tt.product, tt.productType, tt.size)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCatalogService_FillAfterConcurrentWriteIsDropped(t *testing.T) {
	ctx := context.Background()
	stale := digitalProduct("ebook", "10")
	fresh := digitalProduct("ebook", "12")

	repo := &mocks.MockProductRepository{}
	c := &mocks.MockProductCache{}
	svc := NewCatalogService(repo, c)

	c.On("Get", ctx, "ebook").Return(nil, cache.ErrMiss)
	repo.On("Upsert", ctx, fresh).Return(nil)
	c.On("Delete", ctx, "ebook").Return(nil)
	repo.On("Get", ctx, "ebook").Return(stale, nil).Once().Run(func(mock.Arguments) {
		require.NoError(t, svc.SaveProduct(ctx, fresh))
	})

	got, err := svc.GetProduct(ctx, "ebook")

	require.NoError(t, err)
	assert.Same(t, stale, got, "the caller still gets what it read")
	c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
	c.AssertCalled(t, "Delete", ctx, "ebook")

	repo.On("Get", ctx, "ebook").Return(fresh, nil).Once()
	c.On("Set", ctx, fresh).Return(nil).Once()

	got, err = svc.GetProduct(ctx, "ebook")
	require.NoError(t, err)
	assert.Same(t, fresh, got)
	c.AssertExpectations(t)
}
