package service

import (
	"github.com/shopspring/decimal"

	"bharathbhent-backend/internal/models"
)

const PromoCode = "RAM10"

var (
	taxRate               = decimal.RequireFromString("0.18")
	promoRate             = decimal.RequireFromString("0.10")
	freeShippingThreshold = decimal.NewFromInt(1000)
	shippingFee           = decimal.NewFromInt(100)
)

type Pricing struct {
	ItemsPrice    float64
	TaxPrice      float64
	ShippingPrice float64
	Discount      float64
	TotalPrice    float64
}

// PriceOrder computes the order totals from the snapshotted line prices.
// Amounts are rounded to two decimal places.
func PriceOrder(items []models.OrderItem, promoCode string) Pricing {
	itemsPrice := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		itemsPrice = itemsPrice.Add(line)
	}
	itemsPrice = itemsPrice.Round(2)

	tax := itemsPrice.Mul(taxRate).Round(2)
	shipping := shippingFee
	if itemsPrice.GreaterThanOrEqual(freeShippingThreshold) {
		shipping = decimal.Zero
	}
	discount := decimal.Zero
	if promoCode == PromoCode {
		discount = itemsPrice.Mul(promoRate).Round(2)
	}
	total := itemsPrice.Add(tax).Add(shipping).Sub(discount)

	return Pricing{
		ItemsPrice:    itemsPrice.InexactFloat64(),
		TaxPrice:      tax.InexactFloat64(),
		ShippingPrice: shipping.InexactFloat64(),
		Discount:      discount.InexactFloat64(),
		TotalPrice:    total.InexactFloat64(),
	}
}
