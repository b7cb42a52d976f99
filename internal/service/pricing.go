package service

import (
	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// UnitPrice derives the price a cart line is snapshotted at.
//
// A poster with a size present in the product's poster table is priced from
// that table, with the product discount applied and the result rounded to a
// whole unit. Everything else, including a poster whose size has no entry,
// uses Product.Price as given.
func UnitPrice(product *model.Product, productType model.ProductType, posterSize string) decimal.Decimal {
	if productType == model.ProductTypePoster && posterSize != "" {
		if base, ok := product.PosterPricing[posterSize]; ok {
			if product.DiscountPercentage.IsPositive() {
				factor := one.Sub(product.DiscountPercentage.Div(hundred))
				return base.Mul(factor).Round(0)
			}
			return base
		}
	}
	return product.Price
}
