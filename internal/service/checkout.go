package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/logger"
	"github.com/guttosm/cart-service/internal/metrics"
	"github.com/guttosm/cart-service/internal/repository"
)

// ErrInvalidEmail is returned when the checkout email does not parse.
var ErrInvalidEmail = errors.New("invalid customer email")

// CheckoutInput carries the buyer's details.
type CheckoutInput struct {
	CustomerEmail string
	Notes         string
	RequestID     string
}

// CheckoutService turns a cart into a pending order.
type CheckoutService struct {
	store     *CartStore
	orders    repository.OrderRepository
	publisher EventPublisher
	audit     *AuditWriter
	now       func() time.Time
}

// NewCheckoutService creates a checkout service. audit may be nil.
func NewCheckoutService(store *CartStore, orders repository.OrderRepository, publisher EventPublisher, audit *AuditWriter) *CheckoutService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &CheckoutService{
		store:     store,
		orders:    orders,
		publisher: publisher,
		audit:     audit,
		now:       time.Now,
	}
}

// Checkout snapshots the session's cart, stores it as an order and clears
// the cart. If the cart changes while the order is being stored the order
// stands and the cart is left as it is, reported by ErrCartChanged.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string, in CheckoutInput) (order *model.Order, err error) {
	start := s.now()
	defer func() {
		status := "success"
		switch {
		case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrInvalidEmail):
			status = "rejected"
		case errors.Is(err, ErrCartChanged):
			status = "conflict"
		case err != nil:
			status = "error"
		}
		metrics.RecordCheckout(time.Since(start), status)
	}()

	if s.orders == nil {
		return nil, ErrRepositoryNotConfigured
	}
	email := strings.TrimSpace(in.CustomerEmail)
	if _, perr := mail.ParseAddress(email); perr != nil {
		return nil, ErrInvalidEmail
	}

	cartManager, ok := s.store.Peek(sessionID)
	if !ok {
		return nil, ErrEmptyCart
	}
	cart := cartManager.Cart()
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	order = &model.Order{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		CustomerEmail: email,
		Notes:         strings.TrimSpace(in.Notes),
		Lines:         model.OrderLinesFromCart(cart),
		Total:         cart.Total,
		ItemCount:     cart.ItemCount(),
		Status:        model.OrderStatusPending,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("store order: %w", err)
	}

	log := logger.Logger()
	if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID).Msg("Failed to publish order created")
	}
	s.audit.Log(&model.LogEntry{
		Level:      "info",
		Message:    "order created",
		RequestID:  in.RequestID,
		SessionID:  sessionID,
		ActionType: model.ActionCheckout,
		ItemCount:  order.ItemCount,
		Total:      order.Total.String(),
		Version:    cart.Version,
		Fields:     map[string]interface{}{"order_id": order.ID},
	})

	if !cartManager.ClearIfVersion(cart.Version) {
		log.Warn().Str("order_id", order.ID).Str("session_id", sessionID).Msg("Cart changed during checkout, leaving it in place")
		return order, ErrCartChanged
	}

	log.Info().
		Str("order_id", order.ID).
		Str("session_id", sessionID).
		Str("total", order.Total.String()).
		Msg("Checkout completed")
	return order, nil
}
