//go:build !integration

package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/guttosm/cart-service/internal/circuitbreaker"
	"github.com/guttosm/cart-service/internal/domain/dto"
	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/i18n"
	"github.com/guttosm/cart-service/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKey    string
		wantField  string
	}{
		{name: "product validation", err: &model.ProductValidationError{Field: "price", Reason: "must not be negative"}, wantStatus: http.StatusBadRequest, wantKey: i18n.ErrKeyInvalidProductData, wantField: "price"},
		{name: "request validation", err: &dto.ValidationError{Field: "quantity", Message: "must be positive"}, wantStatus: http.StatusBadRequest, wantKey: i18n.ErrKeyInvalidRequest, wantField: "quantity"},
		{name: "wrapped poster size", err: fmt.Errorf("%w: %q", service.ErrUnknownPosterSize, "A0"), wantStatus: http.StatusBadRequest, wantKey: i18n.ErrKeyUnknownPosterSize},
		{name: "product not found", err: service.ErrProductNotFound, wantStatus: http.StatusNotFound, wantKey: i18n.ErrKeyProductNotFound},
		{name: "item not in cart", err: service.ErrItemNotInCart, wantStatus: http.StatusNotFound, wantKey: i18n.ErrKeyItemNotInCart},
		{name: "empty cart", err: service.ErrEmptyCart, wantStatus: http.StatusUnprocessableEntity, wantKey: i18n.ErrKeyEmptyCart},
		{name: "cart changed", err: service.ErrCartChanged, wantStatus: http.StatusConflict, wantKey: i18n.ErrKeyCartChanged},
		{name: "breaker open", err: fmt.Errorf("get product: %w", circuitbreaker.ErrCircuitOpen), wantStatus: http.StatusServiceUnavailable, wantKey: i18n.ErrKeyUnavailable},
		{name: "no repository", err: service.ErrRepositoryNotConfigured, wantStatus: http.StatusServiceUnavailable, wantKey: i18n.ErrKeyUnavailable},
		{name: "deadline", err: fmt.Errorf("list products: %w", context.DeadlineExceeded), wantStatus: http.StatusGatewayTimeout, wantKey: i18n.ErrKeyTimeout},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantKey: i18n.ErrKeyInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			assert.Equal(t, tt.wantStatus, got.status)
			assert.Equal(t, tt.wantKey, got.key)
			assert.Equal(t, tt.wantField, got.field)
		})
	}
}
