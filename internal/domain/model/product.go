// Package model defines the core domain entities for the cart service.
package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ProductType discriminates how a product is sold. The zero value means no
// type was selected.
type ProductType string

const (
	// ProductTypeDigital is a downloadable item priced at Product.Price.
	ProductTypeDigital ProductType = "digital"
	// ProductTypePoster is a printed item priced from Product.PosterPricing.
	ProductTypePoster ProductType = "poster"
)

// Valid reports whether t is empty or a known product type.
func (t ProductType) Valid() bool {
	switch t {
	case "", ProductTypeDigital, ProductTypePoster:
		return true
	}
	return false
}

var maxDiscount = decimal.NewFromInt(100)

// ErrInvalidProduct is matched by every ProductValidationError.
var ErrInvalidProduct = errors.New("invalid product")

// ProductValidationError describes the first field of a product that failed validation.
type ProductValidationError struct {
	Field  string
	Reason string
}

func (e *ProductValidationError) Error() string {
	return fmt.Sprintf("invalid product: %s %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidProduct) true.
func (e *ProductValidationError) Is(target error) bool {
	return target == ErrInvalidProduct
}

// Product is a catalog record. The cart only reads it.
//
// @Description Catalog product with optional poster size pricing
type Product struct {
	// ID is the stable product identifier
	ID string `json:"id" example:"sunset-print"`
	// Name is the display name
	Name string `json:"name" example:"Sunset Print"`
	// Price is the base unit price, already discounted for digital items
	Price decimal.Decimal `json:"price" swaggertype:"string" example:"45"`
	// DiscountPercentage (0-100) applies only to poster size pricing
	DiscountPercentage decimal.Decimal `json:"discount_percentage" swaggertype:"string" example:"20"`
	// PosterPricing maps a poster size label to its undiscounted price
	PosterPricing map[string]decimal.Decimal `json:"poster_pricing,omitempty" swaggertype:"object"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// HasPosterSize reports whether size has an entry in the poster price table.
func (p *Product) HasPosterSize(size string) bool {
	_, ok := p.PosterPricing[size]
	return ok
}

// Validate checks the product fields that pricing depends on.
func (p *Product) Validate() error {
	if p.ID == "" {
		return &ProductValidationError{Field: "id", Reason: "is required"}
	}
	if p.Price.IsNegative() {
		return &ProductValidationError{Field: "price", Reason: "must not be negative"}
	}
	if p.DiscountPercentage.IsNegative() || p.DiscountPercentage.GreaterThan(maxDiscount) {
		return &ProductValidationError{Field: "discount_percentage", Reason: "must be between 0 and 100"}
	}
	for size, price := range p.PosterPricing {
		if size == "" {
			return &ProductValidationError{Field: "poster_pricing", Reason: "has an empty size label"}
		}
		if price.IsNegative() {
			return &ProductValidationError{Field: "poster_pricing", Reason: fmt.Sprintf("size %s has a negative price", size)}
		}
	}
	return nil
}

// Clone returns a copy that shares nothing mutable with p.
func (p *Product) Clone() *Product {
	c := *p
	if p.PosterPricing != nil {
		c.PosterPricing = make(map[string]decimal.Decimal, len(p.PosterPricing))
		for k, v := range p.PosterPricing {
			c.PosterPricing[k] = v
		}
	}
	return &c
}
