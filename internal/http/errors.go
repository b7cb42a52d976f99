package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/guttosm/cart-service/internal/circuitbreaker"
	"github.com/guttosm/cart-service/internal/domain/dto"
	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/i18n"
	"github.com/guttosm/cart-service/internal/service"
)

type errorMapping struct {
	status int
	key    string
	field  string
	reason string
}

var sentinelErrors = []struct {
	err    error
	status int
	key    string
}{
	{service.ErrInvalidQuantity, http.StatusBadRequest, i18n.ErrKeyInvalidQuantity},
	{service.ErrQuantityTooLarge, http.StatusBadRequest, i18n.ErrKeyQuantityTooLarge},
	{service.ErrProductIDRequired, http.StatusBadRequest, i18n.ErrKeyInvalidRequest},
	{service.ErrNilProduct, http.StatusBadRequest, i18n.ErrKeyInvalidRequest},
	{service.ErrInvalidSelection, http.StatusBadRequest, i18n.ErrKeyInvalidSelection},
	{service.ErrUnknownPosterSize, http.StatusBadRequest, i18n.ErrKeyUnknownPosterSize},
	{service.ErrInvalidEmail, http.StatusBadRequest, i18n.ErrKeyInvalidEmail},
	{service.ErrProductNotFound, http.StatusNotFound, i18n.ErrKeyProductNotFound},
	{service.ErrItemNotInCart, http.StatusNotFound, i18n.ErrKeyItemNotInCart},
	{service.ErrEmptyCart, http.StatusUnprocessableEntity, i18n.ErrKeyEmptyCart},
	{service.ErrCartChanged, http.StatusConflict, i18n.ErrKeyCartChanged},
	{service.ErrRepositoryNotConfigured, http.StatusServiceUnavailable, i18n.ErrKeyUnavailable},
	{circuitbreaker.ErrCircuitOpen, http.StatusServiceUnavailable, i18n.ErrKeyUnavailable},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, i18n.ErrKeyTimeout},
}

func mapError(err error) errorMapping {
	var productErr *model.ProductValidationError
	if errors.As(err, &productErr) {
		return errorMapping{status: http.StatusBadRequest, key: i18n.ErrKeyInvalidProductData, field: productErr.Field, reason: productErr.Reason}
	}
	var validationErr *dto.ValidationError
	if errors.As(err, &validationErr) {
		return errorMapping{status: http.StatusBadRequest, key: i18n.ErrKeyInvalidRequest, field: validationErr.Field, reason: validationErr.Message}
	}

	for _, s := range sentinelErrors {
		if errors.Is(err, s.err) {
			return errorMapping{status: s.status, key: s.key}
		}
	}
	return errorMapping{status: http.StatusInternalServerError, key: i18n.ErrKeyInternalError}
}
