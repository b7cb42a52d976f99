package dto

import (
	"net/http"
	"time"

	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/shopspring/decimal"
)

const (
	// ErrCodeInvalidRequest indicates an invalid request.
	ErrCodeInvalidRequest = "invalid_request"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"
	// ErrCodeUnauthorized indicates missing or invalid authentication.
	ErrCodeUnauthorized = "unauthorized"
	// ErrCodeForbidden indicates insufficient permissions.
	ErrCodeForbidden = "forbidden"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound = "not_found"
	// ErrCodeRateLimit indicates rate limit exceeded.
	ErrCodeRateLimit = "rate_limit_exceeded"
	// ErrCodeConflict indicates a conflict with current state.
	ErrCodeConflict = "conflict"
	// ErrCodeUnavailable indicates a dependency is down.
	ErrCodeUnavailable = "service_unavailable"
	// ErrCodeTimeout indicates the request ran out of time.
	ErrCodeTimeout = "timeout"
	// ErrCodeUnprocessable indicates a well-formed request the cart cannot accept.
	ErrCodeUnprocessable = "unprocessable"
)

// SuccessResponse wraps successful API responses with metadata.
// @Description Successful API response wrapper
type SuccessResponse struct {
	Data      interface{} `json:"data" swaggertype:"object"`
	RequestID string      `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time   `json:"timestamp" example:"2026-01-28T10:00:00Z"`
} // @name SuccessResponse

// NewSuccess wraps data.
func NewSuccess(data interface{}, requestID string) SuccessResponse {
	return SuccessResponse{Data: data, RequestID: requestID, Timestamp: time.Now()}
}

// ErrorResponse represents a standardized error response for the API.
// @Description Standardized error response
type ErrorResponse struct {
	Error     string            `json:"error" example:"invalid_request"`
	Message   string            `json:"message,omitempty" example:"quantity: must be a positive integer"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2026-01-28T10:00:00Z"`
} // @name ErrorResponse

// NewError creates a new ErrorResponse with the given code and message.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithRequestID adds a request ID to the error response.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// WithDetail adds one detail entry.
func (e ErrorResponse) WithDetail(key, value string) ErrorResponse {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// ErrCodeFromStatus returns the appropriate error code for an HTTP status.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusUnprocessableEntity:
		return ErrCodeUnprocessable
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusServiceUnavailable:
		return ErrCodeUnavailable
	case http.StatusGatewayTimeout:
		return ErrCodeTimeout
	default:
		return ErrCodeInternal
	}
}

// CartItemResponse is one cart line.
type CartItemResponse struct {
	ProductID   string          `json:"product_id" example:"sunset-print"`
	ProductName string          `json:"product_name" example:"Sunset Print"`
	ProductType string          `json:"product_type,omitempty" example:"poster"`
	PosterSize  string          `json:"poster_size,omitempty" example:"A4"`
	Quantity    int             `json:"quantity" example:"2"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string" example:"80"`
	Subtotal    decimal.Decimal `json:"subtotal" swaggertype:"string" example:"160"`
} // @name CartItemResponse

// CartResponse is a cart snapshot.
// @Description Cart contents with derived totals
type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	Total     decimal.Decimal    `json:"total" swaggertype:"string" example:"160"`
	ItemCount int                `json:"item_count" example:"2"`
	LineCount int                `json:"line_count" example:"1"`
	Version   uint64             `json:"version" example:"3"`
	UpdatedAt time.Time          `json:"updated_at"`
} // @name CartResponse

// NewCartResponse converts a cart snapshot.
func NewCartResponse(cart model.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, CartItemResponse{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			ProductType: string(item.SelectedProductType),
			PosterSize:  item.SelectedPosterSize,
			Quantity:    item.Quantity,
			UnitPrice:   item.SelectedPrice,
			Subtotal:    item.Subtotal(),
		})
	}
	return CartResponse{
		Items:     items,
		Total:     cart.Total,
		ItemCount: cart.ItemCount(),
		LineCount: cart.LineCount(),
		Version:   cart.Version,
		UpdatedAt: cart.UpdatedAt,
	}
}

// CartCountResponse is the badge count of a cart.
type CartCountResponse struct {
	ItemCount int `json:"item_count" example:"3"`
	LineCount int `json:"line_count" example:"2"`
} // @name CartCountResponse

// RemoveItemResponse reports a removal.
type RemoveItemResponse struct {
	Removed int          `json:"removed" example:"1"`
	Cart    CartResponse `json:"cart"`
} // @name RemoveItemResponse

// ProductListResponse is a page of the catalog.
type ProductListResponse struct {
	Products []model.Product `json:"products"`
	Limit    int             `json:"limit" example:"50"`
	Offset   int             `json:"offset" example:"0"`
} // @name ProductListResponse

// OrderResponse is the result of a checkout.
type OrderResponse struct {
	Order       *model.Order `json:"order"`
	CartCleared bool         `json:"cart_cleared" example:"true"`
} // @name OrderResponse
