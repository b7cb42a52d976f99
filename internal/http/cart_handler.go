package http

import (
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/internal/domain/dto"
	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/i18n"
	"github.com/guttosm/cart-service/internal/logger"
	"github.com/guttosm/cart-service/internal/middleware"
	"github.com/guttosm/cart-service/internal/service"
)

const (
	defaultHeartbeat = 25 * time.Second
	// eventBuffer holds the one snapshot waiting for a slow client.
	eventBuffer = 1
)

// CartHandler serves the shopper's cart.
type CartHandler struct {
	carts     *service.CartService
	heartbeat time.Duration

	closing   chan struct{}
	closeOnce sync.Once
}

// NewCartHandler creates a cart handler. heartbeat is the SSE keep-alive
// period; zero uses the default.
func NewCartHandler(carts *service.CartService, heartbeat time.Duration) *CartHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &CartHandler{carts: carts, heartbeat: heartbeat, closing: make(chan struct{})}
}

// CloseStreams ends every open event stream. Server shutdown waits for
// active requests, and streams never finish on their own.
func (h *CartHandler) CloseStreams() {
	h.closeOnce.Do(func() { close(h.closing) })
}

// GetCart handles GET /api/v1/cart.
//
// @Summary      Get cart
// @Description  Returns the cart of the X-Cart-Session session. An unknown session gets an empty cart.
// @Tags         Cart
// @Produce      json
// @Param        X-Cart-Session header string false "Cart session UUID"
// @Success      200 {object} dto.SuccessResponse{data=dto.CartResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/v1/cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	cart := h.carts.Cart(middleware.GetCartSession(c))
	NewResponseBuilder(c).Success(http.StatusOK, dto.NewCartResponse(cart))
}

// GetCount handles GET /api/v1/cart/count.
//
// @Summary      Cart badge count
// @Tags         Cart
// @Produce      json
// @Param        X-Cart-Session header string false "Cart session UUID"
// @Success      200 {object} dto.SuccessResponse{data=dto.CartCountResponse}
// @Router       /api/v1/cart/count [get]
func (h *CartHandler) GetCount(c *gin.Context) {
	cart := h.carts.Cart(middleware.GetCartSession(c))
	NewResponseBuilder(c).Success(http.StatusOK, dto.CartCountResponse{
		ItemCount: cart.ItemCount(),
		LineCount: cart.LineCount(),
	})
}

// AddItem handles POST /api/v1/cart/items.
//
// @Summary      Add item
// @Description  Adds a product variant. A line with the same product, type and size absorbs the quantity and keeps its original price.
// @Tags         Cart
// @Accept       json
// @Produce      json
// @Param        X-Cart-Session header string false "Cart session UUID"
// @Param        request body dto.AddItemRequest true "Item to add"
// @Success      200 {object} dto.SuccessResponse{data=dto.CartResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse "Product not found"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Router       /api/v1/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	b := NewResponseBuilder(c)
	req, err := BindAndValidate[dto.AddItemRequest](c)
	if err != nil {
		bindFailed(b, err)
		return
	}

	cart, err := h.carts.AddItem(c.Request.Context(), middleware.GetCartSession(c), service.AddItemInput{
		ProductID:   req.ProductID,
		Quantity:    req.QuantityOrDefault(),
		ProductType: model.ProductType(req.ProductType),
		PosterSize:  req.PosterSize,
	})
	if err != nil {
		b.Fail(err)
		return
	}
	b.Success(http.StatusOK, dto.NewCartResponse(cart))
}

// UpdateQuantity handles PATCH /api/v1/cart/items/:productId.
//
// @Summary      Update quantity
// @Description  Sets the quantity of the first line holding the product, or of the exact variant when product_type or poster_size is given. Zero removes the line.
// @Tags         Cart
// @Accept       json
// @Produce      json
// @Param        X-Cart-Session header string false "Cart session UUID"
// @Param        productId path string true "Product ID"
// @Param        request body dto.UpdateQuantityRequest true "New quantity"
// @Success      200 {object} dto.SuccessResponse{data=dto.CartResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse "Item not in cart"
// @Router       /api/v1/cart/items/{productId} [patch]
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	b := NewResponseBuilder(c)
	req, err := BindAndValidate[dto.UpdateQuantityRequest](c)
	if err != nil {
		bindFailed(b, err)
		return
	}

	cart, err := h.carts.UpdateQuantity(c.Request.Context(), middleware.GetCartSession(c), service.UpdateQuantityInput{
		ProductID:   c.Param("productId"),
		Quantity:    *req.Quantity,
		ProductType: model.ProductType(req.ProductType),
		PosterSize:  req.PosterSize,
	})
	if err != nil {
		b.Fail(err)
		return
	}
	b.Success(http.StatusOK, dto.NewCartResponse(cart))
}

// RemoveItem handles DELETE /api/v1/cart/items/:productId.
//
// @Summary      Remove item
// @Description  Removes every line of the product, or one line when product_type or poster_size is given. Removing an absent item succeeds with removed=0.
// @Tags         Cart
// @Produce      json
// @Param        X-Cart-Session header string false "Cart session UUID"
// @Param        productId path string true "Product ID"
// @Param        product_type query string false "Variant type" Enums(digital, poster)
// @Param        poster_size query string false "Poster size"
// @Success      200 {object} dto.SuccessResponse{data=dto.RemoveItemResponse}
// @Router       /api/v1/cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID := middleware.GetCartSession(c)
	productID := c.Param("productId")
	productType, posterSize := c.Query("product_type"), c.Query("poster_size")

	var (
		cart    model.Cart
		removed int
	)
	if productType != "" || posterSize != "" {
		var ok bool
		cart, ok = h.carts.RemoveLine(c.Request.Context(), sessionID, model.LineKey{
			ProductID:   productID,
			ProductType: model.ProductType(productType),
			PosterSize:  posterSize,
		})
		if ok {
			removed = 1
		}
	} else {
		cart, removed = h.carts.RemoveItem(c.Request.Context(), sessionID, productID)
	}

	NewResponseBuilder(c).Success(http.StatusOK, dto.RemoveItemResponse{
		Removed: removed,
		Cart:    dto.NewCartResponse(cart),
	})
}

// ClearCart handles DELETE /api/v1/cart.
//
// @Summary      Clear cart
// @Tags         Cart
// @Produce      json
// @Param        X-Cart-Session header string false "Cart session UUID"
// @Success      200 {object} dto.SuccessResponse{data=dto.CartResponse}
// @Router       /api/v1/cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	cart := h.carts.Clear(c.Request.Context(), middleware.GetCartSession(c))
	NewResponseBuilder(c).Success(http.StatusOK, dto.NewCartResponse(cart))
}

// Events handles GET /api/v1/cart/events.
//
// @Summary      Cart change stream
// @Description  Server-Sent Events. Sends the current cart as a "cart" event, then one per change, and a "ping" comment-style event as keep-alive. The session may be passed as ?session= since EventSource cannot set headers.
// @Tags         Cart
// @Produce      text/event-stream
// @Param        X-Cart-Session header string false "Cart session UUID"
// @Param        session query string false "Cart session UUID"
// @Success      200 {object} dto.CartResponse "event: cart"
// @Router       /api/v1/cart/events [get]
func (h *CartHandler) Events(c *gin.Context) {
	sessionID := middleware.GetCartSession(c)
	updates := make(chan model.Cart, eventBuffer)

	initial, unsubscribe := h.carts.Subscribe(sessionID, func(cart model.Cart) {
		offerLatest(updates, cart)
	})
	defer unsubscribe()

	log := logger.Logger()
	log.Debug().Str("session_id", sessionID).Msg("Cart event stream opened")
	defer log.Debug().Str("session_id", sessionID).Msg("Cart event stream closed")

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	lastVersion := initial.Version
	c.SSEvent("cart", dto.NewCartResponse(initial))
	c.Writer.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	c.Stream(func(io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-h.closing:
			return false
		case cart := <-updates:
			// Concurrent writers can deliver snapshots out of order.
			if cart.Version <= lastVersion {
				return true
			}
			lastVersion = cart.Version
			c.SSEvent("cart", dto.NewCartResponse(cart))
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}

// offerLatest queues cart, dropping the oldest queued snapshot when the
// client is slow. A later snapshot supersedes an earlier one.
func offerLatest(ch chan model.Cart, cart model.Cart) {
	for {
		select {
		case ch <- cart:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func bindFailed(b *ResponseBuilder, err error) {
	var validationErr *dto.ValidationError
	if errors.As(err, &validationErr) {
		b.Fail(err)
		return
	}
	b.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, nil)
}
