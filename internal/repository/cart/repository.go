package cart

import (
	"context"

	"storefront/internal/domain"
)

// DefaultKey is the storage key the cart lines live under.
const DefaultKey = "ecommerce-cart"

// Repository persists the full cart line collection as one unit.
type Repository interface {
	// Load returns domain.ErrNotFound when nothing was ever saved.
	Load(ctx context.Context) ([]domain.CartLine, error)
	Save(ctx context.Context, lines []domain.CartLine) error
}
