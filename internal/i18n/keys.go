package i18n

// Error message translation keys.
const (
	ErrKeyInvalidRequest     = "error.invalid_request"
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	ErrKeyInternalError      = "error.internal_error"
	ErrKeyUnauthorized       = "error.unauthorized"
	ErrKeyInvalidAPIKey      = "error.invalid_api_key"
	ErrKeyInvalidToken       = "error.invalid_token"
	ErrKeyForbidden          = "error.forbidden"
	ErrKeyNotFound           = "error.not_found"
	ErrKeyRateLimitExceeded  = "error.rate_limit_exceeded"
	ErrKeyConflict           = "error.conflict"
	ErrKeyUnavailable        = "error.unavailable"
	ErrKeyTimeout            = "error.timeout"

	// Cart and catalog errors.
	ErrKeyInvalidSession     = "error.cart.invalid_session"
	ErrKeyProductNotFound    = "error.cart.product_not_found"
	ErrKeyItemNotInCart      = "error.cart.item_not_in_cart"
	ErrKeyInvalidQuantity    = "error.cart.invalid_quantity"
	ErrKeyQuantityTooLarge   = "error.cart.quantity_too_large"
	ErrKeyInvalidSelection   = "error.cart.invalid_selection"
	ErrKeyUnknownPosterSize  = "error.cart.unknown_poster_size"
	ErrKeyEmptyCart          = "error.checkout.empty_cart"
	ErrKeyInvalidEmail       = "error.checkout.invalid_email"
	ErrKeyCartChanged        = "error.checkout.cart_changed"
	ErrKeyInvalidProductData = "error.catalog.invalid_product"
)

// Success message translation keys.
const (
	SuccessKeyCartCleared  = "success.cart_cleared"
	SuccessKeyOrderCreated = "success.order_created"
)
