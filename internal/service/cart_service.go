package service

import (
	"context"

	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/logger"
	"github.com/guttosm/cart-service/internal/metrics"
)

// AddItemInput selects a product variant to add.
type AddItemInput struct {
	ProductID   string
	Quantity    int
	ProductType model.ProductType
	PosterSize  string
}

// UpdateQuantityInput targets a cart line. With no type or size set the first
// line holding ProductID is updated; otherwise the exact variant is.
type UpdateQuantityInput struct {
	ProductID   string
	Quantity    int
	ProductType model.ProductType
	PosterSize  string
}

func (in UpdateQuantityInput) exact() bool {
	return in.ProductType != "" || in.PosterSize != ""
}

// CartService resolves products from the catalog and applies cart
// operations to the session's cart.
type CartService struct {
	store       *CartStore
	catalog     CatalogService
	maxQuantity int
}

// NewCartService creates a cart service. A maxQuantity of zero leaves quantities unbounded.
func NewCartService(store *CartStore, catalog CatalogService, maxQuantity int) *CartService {
	return &CartService{store: store, catalog: catalog, maxQuantity: maxQuantity}
}

// Cart returns the session's cart. Unknown sessions get an empty cart at version zero.
func (s *CartService) Cart(sessionID string) model.Cart {
	if m, ok := s.store.Peek(sessionID); ok {
		return m.Cart()
	}
	return model.Cart{Items: []model.CartItem{}}
}

// AddItem looks the product up, checks the selection and adds it.
func (s *CartService) AddItem(ctx context.Context, sessionID string, in AddItemInput) (model.Cart, error) {
	if err := s.checkQuantity(in.Quantity); err != nil {
		return model.Cart{}, err
	}
	if in.ProductID == "" {
		return model.Cart{}, ErrProductIDRequired
	}

	product, err := s.catalog.GetProduct(ctx, in.ProductID)
	if err != nil {
		return model.Cart{}, err
	}
	if err := ValidateSelection(product, in.ProductType, in.PosterSize); err != nil {
		return model.Cart{}, err
	}

	cart := s.store.Get(sessionID)
	if err := cart.AddItem(product, in.Quantity, in.ProductType, in.PosterSize); err != nil {
		return model.Cart{}, err
	}
	metrics.RecordCartOperation(model.ActionCartAdd)

	log := logger.Logger()
	log.Debug().
		Str("session_id", sessionID).
		Str("product_id", product.ID).
		Int("quantity", in.Quantity).
		Msg("Item added to cart")
	return cart.Cart(), nil
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
// A miss returns ErrItemNotInCart and leaves the cart untouched.
func (s *CartService) UpdateQuantity(_ context.Context, sessionID string, in UpdateQuantityInput) (model.Cart, error) {
	if s.maxQuantity > 0 && in.Quantity > s.maxQuantity {
		return model.Cart{}, ErrQuantityTooLarge
	}

	cart, ok := s.store.Peek(sessionID)
	if !ok {
		return model.Cart{}, ErrItemNotInCart
	}

	var matched bool
	if in.exact() {
		matched = cart.UpdateLine(model.LineKey{
			ProductID:   in.ProductID,
			ProductType: in.ProductType,
			PosterSize:  in.PosterSize,
		}, in.Quantity)
	} else {
		matched = cart.UpdateQuantity(in.ProductID, in.Quantity)
	}
	if !matched {
		return model.Cart{}, ErrItemNotInCart
	}
	metrics.RecordCartOperation(model.ActionCartUpdate)
	return cart.Cart(), nil
}

// RemoveItem removes every line of productID. Removing an absent product is not an error.
func (s *CartService) RemoveItem(_ context.Context, sessionID, productID string) (model.Cart, int) {
	cart := s.store.Get(sessionID)
	removed := cart.RemoveItem(productID)
	metrics.RecordCartOperation(model.ActionCartRemove)
	return cart.Cart(), removed
}

// RemoveLine removes one exact variant line.
func (s *CartService) RemoveLine(_ context.Context, sessionID string, key model.LineKey) (model.Cart, bool) {
	cart := s.store.Get(sessionID)
	removed := cart.RemoveLine(key)
	metrics.RecordCartOperation(model.ActionCartRemove)
	return cart.Cart(), removed
}

// Clear empties the session's cart.
func (s *CartService) Clear(_ context.Context, sessionID string) model.Cart {
	cart := s.store.Get(sessionID)
	cart.Clear()
	metrics.RecordCartOperation(model.ActionCartClear)
	return cart.Cart()
}

// Subscribe streams the session's cart changes to fn until the returned func is called.
func (s *CartService) Subscribe(sessionID string, fn CartSubscriber) (model.Cart, func()) {
	cart := s.store.Get(sessionID)
	unsubscribe := cart.Subscribe(fn)
	return cart.Cart(), unsubscribe
}

func (s *CartService) checkQuantity(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if s.maxQuantity > 0 && quantity > s.maxQuantity {
		return ErrQuantityTooLarge
	}
	return nil
}
