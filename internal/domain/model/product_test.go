package model

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductType_Valid(t *testing.T) {
	assert.True(t, ProductType("").Valid())
	assert.True(t, ProductTypeDigital.Valid())
	assert.True(t, ProductTypePoster.Valid())
	assert.False(t, ProductType("canvas").Valid())
}

func TestProduct_Validate(t *testing.T) {
	tests := []struct {
		name      string
		product   Product
		wantField string
	}{
		{
			name:    "valid digital product",
			product: Product{ID: "p1", Price: decimal.NewFromInt(45)},
		},
		{
			name: "valid poster product",
			product: Product{
				ID:                 "p1",
				Price:              decimal.NewFromInt(45),
				DiscountPercentage: decimal.NewFromInt(20),
				PosterPricing:      map[string]decimal.Decimal{"A4": decimal.NewFromInt(100)},
			},
		},
		{
			name:      "missing id",
			product:   Product{Price: decimal.NewFromInt(1)},
			wantField: "id",
		},
		{
			name:      "negative price",
			product:   Product{ID: "p1", Price: decimal.NewFromInt(-1)},
			wantField: "price",
		},
		{
			name:      "discount above 100",
			product:   Product{ID: "p1", DiscountPercentage: decimal.NewFromInt(101)},
			wantField: "discount_percentage",
		},
		{
			name:      "negative discount",
			product:   Product{ID: "p1", DiscountPercentage: decimal.NewFromInt(-5)},
			wantField: "discount_percentage",
		},
		{
			name: "empty size label",
			product: Product{
				ID:            "p1",
				PosterPricing: map[string]decimal.Decimal{"": decimal.NewFromInt(10)},
			},
			wantField: "poster_pricing",
		},
		{
			name: "negative poster price",
			product: Product{
				ID:            "p1",
				PosterPricing: map[string]decimal.Decimal{"A3": decimal.NewFromInt(-10)},
			},
			wantField: "poster_pricing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidProduct))

			var validationErr *ProductValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.wantField, validationErr.Field)
		})
	}
}

func TestProduct_Clone(t *testing.T) {
	original := &Product{
		ID:            "p1",
		PosterPricing: map[string]decimal.Decimal{"A4": decimal.NewFromInt(100)},
	}

	clone := original.Clone()
	clone.PosterPricing["A4"] = decimal.NewFromInt(1)
	clone.ID = "p2"

	assert.Equal(t, "p1", original.ID)
	assert.True(t, original.PosterPricing["A4"].Equal(decimal.NewFromInt(100)))
	assert.True(t, original.HasPosterSize("A4"))
	assert.False(t, original.HasPosterSize("A3"))
}
