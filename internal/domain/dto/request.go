// Package dto defines the request and response bodies of the HTTP API.
package dto

import (
	"strings"

	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/shopspring/decimal"
)

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// AddItemRequest adds a product variant to the cart.
// @Description Add a product to the cart. Quantity defaults to 1.
type AddItemRequest struct {
	ProductID   string `json:"product_id" binding:"required" example:"sunset-print"`
	Quantity    *int   `json:"quantity,omitempty" example:"2" minimum:"1"`
	ProductType string `json:"product_type,omitempty" enums:"digital,poster" example:"poster"`
	PosterSize  string `json:"poster_size,omitempty" example:"A4"`
} // @name AddItemRequest

// QuantityOrDefault returns the requested quantity, or 1 when none was sent.
func (r *AddItemRequest) QuantityOrDefault() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

// Validate performs checks binding tags cannot express.
func (r *AddItemRequest) Validate() error {
	if strings.TrimSpace(r.ProductID) == "" {
		return &ValidationError{Field: "product_id", Message: "is required"}
	}
	if r.QuantityOrDefault() <= 0 {
		return &ValidationError{Field: "quantity", Message: "must be a positive integer"}
	}
	if !model.ProductType(r.ProductType).Valid() {
		return &ValidationError{Field: "product_type", Message: "must be digital or poster"}
	}
	return nil
}

// UpdateQuantityRequest sets a line's quantity. Zero or less removes the line.
// @Description Set the quantity of a cart line
type UpdateQuantityRequest struct {
	Quantity    *int   `json:"quantity" binding:"required" example:"3"`
	ProductType string `json:"product_type,omitempty" enums:"digital,poster" example:"poster"`
	PosterSize  string `json:"poster_size,omitempty" example:"A3"`
} // @name UpdateQuantityRequest

// Validate performs checks binding tags cannot express.
func (r *UpdateQuantityRequest) Validate() error {
	if r.Quantity == nil {
		return &ValidationError{Field: "quantity", Message: "is required"}
	}
	if !model.ProductType(r.ProductType).Valid() {
		return &ValidationError{Field: "product_type", Message: "must be digital or poster"}
	}
	return nil
}

// CheckoutRequest carries the buyer's details.
// @Description Checkout the current cart
type CheckoutRequest struct {
	CustomerEmail string `json:"customer_email" binding:"required,email" example:"buyer@example.com"`
	Notes         string `json:"notes,omitempty" binding:"max=500" example:"Please gift wrap"`
} // @name CheckoutRequest

// UpsertProductRequest creates or replaces a catalog product.
// @Description Create or replace a product
type UpsertProductRequest struct {
	Name               string            `json:"name" binding:"required" example:"Sunset Print"`
	Price              decimal.Decimal   `json:"price" swaggertype:"string" example:"45"`
	DiscountPercentage decimal.Decimal   `json:"discount_percentage" swaggertype:"string" example:"20"`
	PosterPricing      map[string]string `json:"poster_pricing,omitempty" example:"A4:100"`
} // @name UpsertProductRequest

// ToProduct builds a product with id. Poster prices are parsed as decimals.
func (r *UpsertProductRequest) ToProduct(id string) (*model.Product, error) {
	p := &model.Product{
		ID:                 id,
		Name:               strings.TrimSpace(r.Name),
		Price:              r.Price,
		DiscountPercentage: r.DiscountPercentage,
	}
	if len(r.PosterPricing) > 0 {
		p.PosterPricing = make(map[string]decimal.Decimal, len(r.PosterPricing))
		for size, raw := range r.PosterPricing {
			price, err := decimal.NewFromString(strings.TrimSpace(raw))
			if err != nil {
				return nil, &ValidationError{Field: "poster_pricing." + size, Message: "must be a decimal number"}
			}
			p.PosterPricing[size] = price
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
