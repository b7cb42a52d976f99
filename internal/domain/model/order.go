package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

// OrderStatusPending marks an order that is waiting for payment.
const OrderStatusPending OrderStatus = "pending"

// OrderLine is a frozen copy of a cart line at checkout time.
type OrderLine struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductType ProductType     `json:"product_type,omitempty"`
	PosterSize  string          `json:"poster_size,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal" swaggertype:"string"`
}

// Order is built from a cart at checkout and handed to the payment collaborator.
type Order struct {
	ID            string          `json:"id"`
	SessionID     string          `json:"session_id"`
	CustomerEmail string          `json:"customer_email"`
	Notes         string          `json:"notes,omitempty"`
	Lines         []OrderLine     `json:"lines"`
	Total         decimal.Decimal `json:"total" swaggertype:"string"`
	ItemCount     int             `json:"item_count"`
	Status        OrderStatus     `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderLinesFromCart converts cart lines into order lines.
func OrderLinesFromCart(cart Cart) []OrderLine {
	lines := make([]OrderLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, OrderLine{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			ProductType: item.SelectedProductType,
			PosterSize:  item.SelectedPosterSize,
			UnitPrice:   item.SelectedPrice,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal(),
		})
	}
	return lines
}
