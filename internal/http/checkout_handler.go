package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/internal/domain/dto"
	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/middleware"
	"github.com/guttosm/cart-service/internal/service"
)

// Checkouter places orders from carts.
type Checkouter interface {
	Checkout(ctx context.Context, sessionID string, in service.CheckoutInput) (*model.Order, error)
}

// CheckoutHandler turns the session's cart into an order.
type CheckoutHandler struct {
	checkout Checkouter
}

// NewCheckoutHandler creates a checkout handler.
func NewCheckoutHandler(checkout Checkouter) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Checkout handles POST /api/v1/checkout.
//
// @Summary      Checkout
// @Description  Stores the cart as a pending order and clears it. If the cart changed meanwhile the order still stands and cart_cleared is false. Retries with the same Idempotency-Key replay the first success.
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        X-Cart-Session header string true "Cart session UUID"
// @Param        Idempotency-Key header string false "Retry key"
// @Param        request body dto.CheckoutRequest true "Buyer details"
// @Success      201 {object} dto.SuccessResponse{data=dto.OrderResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse "Cart is empty"
// @Failure      503 {object} dto.ErrorResponse "Order store unavailable"
// @Router       /api/v1/checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	b := NewResponseBuilder(c)
	req, err := BindAndValidate[dto.CheckoutRequest](c)
	if err != nil {
		bindFailed(b, err)
		return
	}

	order, err := h.checkout.Checkout(c.Request.Context(), middleware.GetCartSession(c), service.CheckoutInput{
		CustomerEmail: req.CustomerEmail,
		Notes:         req.Notes,
		RequestID:     middleware.GetRequestID(c),
	})
	cleared := true
	switch {
	case errors.Is(err, service.ErrCartChanged) && order != nil:
		cleared = false
	case err != nil:
		b.Fail(err)
		return
	}

	b.Success(http.StatusCreated, dto.OrderResponse{Order: order, CartCleared: cleared})
}
