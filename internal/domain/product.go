package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Product is a catalog entry as served by the remote catalog API.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Rating      *Rating         `json:"rating,omitempty"`
	Brand       string          `json:"brand,omitempty"`
	Model       string          `json:"model,omitempty"`
	Color       string          `json:"color,omitempty"`
	Discount    *int            `json:"discount,omitempty"`
}

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// DiscountedPrice returns the price after the percentage discount, and false
// when the product carries no usable discount.
func (p Product) DiscountedPrice() (decimal.Decimal, bool) {
	if p.Discount == nil || *p.Discount <= 0 || *p.Discount > 100 {
		return p.Price, false
	}
	off := decimal.NewFromInt(int64(*p.Discount)).Div(hundred)
	return p.Price.Mul(decimal.NewFromInt(1).Sub(off)).Round(2), true
}
