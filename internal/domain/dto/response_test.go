package dto

import (
	"net/http"
	"testing"
	"time"

	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestErrorResponse_Builders(t *testing.T) {
	base := NewError(ErrCodeInvalidRequest, "bad quantity")

	withID := base.WithRequestID("req-1").WithDetail("field", "quantity")

	assert.Equal(t, "req-1", withID.RequestID)
	assert.Equal(t, "quantity", withID.Details["field"])
	assert.Empty(t, base.RequestID)
	assert.Nil(t, base.Details)
	assert.False(t, withID.Timestamp.IsZero())
}

func TestErrCodeFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusBadRequest, ErrCodeInvalidRequest},
		{http.StatusUnauthorized, ErrCodeUnauthorized},
		{http.StatusForbidden, ErrCodeForbidden},
		{http.StatusNotFound, ErrCodeNotFound},
		{http.StatusConflict, ErrCodeConflict},
		{http.StatusUnprocessableEntity, ErrCodeUnprocessable},
		{http.StatusTooManyRequests, ErrCodeRateLimit},
		{http.StatusServiceUnavailable, ErrCodeUnavailable},
		{http.StatusGatewayTimeout, ErrCodeTimeout},
		{http.StatusBadGateway, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, ErrCodeFromStatus(tt.status))
		})
	}
}

func TestNewCartResponse(t *testing.T) {
	updated := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	cart := model.Cart{
		Items: []model.CartItem{
			{
				Product:             &model.Product{ID: "p1", Name: "Sunset"},
				Quantity:            2,
				SelectedProductType: model.ProductTypePoster,
				SelectedPosterSize:  "A4",
				SelectedPrice:       decimal.NewFromInt(80),
			},
			{
				Product:       &model.Product{ID: "p2", Name: "Pack"},
				Quantity:      1,
				SelectedPrice: decimal.NewFromInt(10),
			},
		},
		Total:     decimal.NewFromInt(170),
		Version:   7,
		UpdatedAt: updated,
	}

	resp := NewCartResponse(cart)

	assert.Len(t, resp.Items, 2)
	assert.Equal(t, "poster", resp.Items[0].ProductType)
	assert.True(t, resp.Items[0].Subtotal.Equal(decimal.NewFromInt(160)))
	assert.Equal(t, 3, resp.ItemCount)
	assert.Equal(t, 2, resp.LineCount)
	assert.Equal(t, uint64(7), resp.Version)
	assert.Equal(t, updated, resp.UpdatedAt)
}

func TestNewCartResponse_EmptyCartHasItemsArray(t *testing.T) {
	resp := NewCartResponse(model.Cart{Total: decimal.Zero})

	assert.NotNil(t, resp.Items)
	assert.Empty(t, resp.Items)
}
