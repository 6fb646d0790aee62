package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"
)

type lineSeed struct {
	ID       int
	Title    string
	Image    string
	Price    string
	Quantity int
}

var demoLines = []lineSeed{
	{ID: 1, Title: "Demo Wireless Earbuds", Image: "https://example.com/img/earbuds.jpg", Price: "24.99", Quantity: 1},
	{ID: 2, Title: "Demo Phone Case", Image: "https://example.com/img/case.jpg", Price: "9.50", Quantity: 2},
}

// Apply writes the demo cart, replacing whatever was stored, and returns the
// number of lines written. Running it twice leaves the same state.
func Apply(ctx context.Context, repo cartrepo.Repository) (int, error) {
	lines := make([]domain.CartLine, 0, len(demoLines))
	for _, s := range demoLines {
		price, err := decimal.NewFromString(s.Price)
		if err != nil {
			return 0, fmt.Errorf("seed line %d price: %w", s.ID, err)
		}
		lines = append(lines, domain.CartLine{
			ID:        s.ID,
			Title:     s.Title,
			Image:     s.Image,
			UnitPrice: price,
			Quantity:  s.Quantity,
		})
	}
	if err := repo.Save(ctx, lines); err != nil {
		return 0, fmt.Errorf("save demo cart: %w", err)
	}
	return len(lines), nil
}
