package domain

import "github.com/shopspring/decimal"

// CartLine is one distinct product in the cart. The JSON layout is the stored
// format of the durable cart key.
type CartLine struct {
	ID        int             `json:"id"`
	Title     string          `json:"title"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// LineFromProduct builds a new cart line for p with the given quantity.
func LineFromProduct(p Product, quantity int) CartLine {
	return CartLine{
		ID:        p.ID,
		Title:     p.Title,
		Image:     p.Image,
		UnitPrice: p.Price,
		Quantity:  quantity,
	}
}

// Subtotal is unit price times quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartSnapshot is the derived view over a line collection. Build it with
// NewCartSnapshot only.
type CartSnapshot struct {
	Lines     []CartLine      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// NewCartSnapshot copies lines and derives total and item count from them.
func NewCartSnapshot(lines []CartLine) CartSnapshot {
	out := CartSnapshot{
		Lines: make([]CartLine, len(lines)),
		Total: decimal.Zero,
	}
	copy(out.Lines, lines)
	for _, l := range lines {
		out.Total = out.Total.Add(l.Subtotal())
		out.ItemCount += l.Quantity
	}
	return out
}

// Find returns the index of the line with the given product id, or -1.
func (s CartSnapshot) Find(productID int) int {
	for i, l := range s.Lines {
		if l.ID == productID {
			return i
		}
	}
	return -1
}

// Pricing holds the order summary rules applied on top of the cart total.
type Pricing struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
}

// DefaultPricing is 8% tax, free shipping over 50, otherwise 9.99.
func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:               decimal.RequireFromString("0.08"),
		FreeShippingThreshold: decimal.NewFromInt(50),
		ShippingFee:           decimal.RequireFromString("9.99"),
	}
}

type CartSummary struct {
	Subtotal              decimal.Decimal `json:"subtotal"`
	Tax                   decimal.Decimal `json:"tax"`
	Shipping              decimal.Decimal `json:"shipping"`
	Total                 decimal.Decimal `json:"total"`
	FreeShipping          bool            `json:"freeShipping"`
	FreeShippingRemaining decimal.Decimal `json:"freeShippingRemaining"`
	ItemCount             int             `json:"itemCount"`
}

// Summarize computes tax, shipping and the grand total for a snapshot.
// Amounts are rounded to cents.
func (p Pricing) Summarize(s CartSnapshot) CartSummary {
	subtotal := s.Total
	tax := subtotal.Mul(p.TaxRate)
	shipping := p.ShippingFee
	free := subtotal.GreaterThan(p.FreeShippingThreshold)
	if free {
		shipping = decimal.Zero
	}
	remaining := decimal.Zero
	if subtotal.LessThan(p.FreeShippingThreshold) {
		remaining = p.FreeShippingThreshold.Sub(subtotal)
	}
	return CartSummary{
		Subtotal:              subtotal.Round(2),
		Tax:                   tax.Round(2),
		Shipping:              shipping.Round(2),
		Total:                 subtotal.Add(tax).Add(shipping).Round(2),
		FreeShipping:          free,
		FreeShippingRemaining: remaining.Round(2),
		ItemCount:             s.ItemCount,
	}
}
