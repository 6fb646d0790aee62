package product

import (
	"context"

	"storefront/internal/domain"
)

// ListQuery selects one page of the catalog. An empty Category or
// domain.AllCategories lists every product.
type ListQuery struct {
	Category string
	Page     int
	Limit    int
}

type Repository interface {
	List(ctx context.Context, q ListQuery) ([]domain.Product, error)
	GetByID(ctx context.Context, id int) (*domain.Product, error)
}
