package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineKey identifies a cart line. Two additions with equal keys merge into one line.
type LineKey struct {
	ProductID   string
	ProductType ProductType
	PosterSize  string
}

// CartItem is one line of a cart.
type CartItem struct {
	// Product is shared with the catalog and never modified by the cart
	Product *Product `json:"product"`
	// Quantity is at least 1 while the line exists
	Quantity            int         `json:"quantity"`
	SelectedProductType ProductType `json:"selected_product_type,omitempty"`
	SelectedPosterSize  string      `json:"selected_poster_size,omitempty"`
	// SelectedPrice is the unit price captured when the line was first added
	SelectedPrice decimal.Decimal `json:"selected_price"`
}

// Key returns the identity of the line.
func (i CartItem) Key() LineKey {
	return LineKey{
		ProductID:   i.Product.ID,
		ProductType: i.SelectedProductType,
		PosterSize:  i.SelectedPosterSize,
	}
}

// Subtotal returns SelectedPrice * Quantity.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.SelectedPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is a point-in-time view of a cart.
// Total always equals the sum of the item subtotals.
type Cart struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
	// Version increases on every mutation of the owning cart.
	Version   uint64    `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemCount returns the number of units across all lines.
func (c Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// LineCount returns the number of distinct lines.
func (c Cart) LineCount() int {
	return len(c.Items)
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clone copies the item slice so the result can be modified independently.
// Products stay shared.
func (c Cart) Clone() Cart {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c
}

// ComputeTotal sums SelectedPrice * Quantity over items.
func ComputeTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
