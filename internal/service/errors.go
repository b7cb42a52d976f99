package service

import "errors"

// Cart errors.
var (
	ErrNilProduct        = errors.New("product is required")
	ErrProductIDRequired = errors.New("product id is required")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrQuantityTooLarge  = errors.New("quantity exceeds the allowed maximum")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrCartChanged       = errors.New("cart changed during checkout")
	ErrItemNotInCart     = errors.New("item is not in the cart")
)

// Catalog errors.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrUnknownPosterSize = errors.New("poster size is not offered for this product")
	ErrInvalidSelection  = errors.New("invalid product type selection")
)

// ErrRepositoryNotConfigured is returned when an operation needs a store that was not wired.
var ErrRepositoryNotConfigured = errors.New("repository not configured")
