package category

import (
	"context"

	"storefront/internal/domain"
)

// The catalog API has no category endpoint, so the filter list is fixed.
var predefined = []domain.Category{
	{Name: "All Products", Slug: domain.AllCategories},
	{Name: "Mobile", Slug: "mobile"},
	{Name: "TV", Slug: "tv"},
	{Name: "Audio", Slug: "audio"},
	{Name: "Laptop", Slug: "laptop"},
	{Name: "Gaming", Slug: "gaming"},
	{Name: "Appliances", Slug: "appliances"},
}

type staticRepo struct {
	categories []domain.Category
}

// NewStatic serves the predefined category list.
func NewStatic() Repository {
	return &staticRepo{categories: predefined}
}

func (r *staticRepo) List(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, len(r.categories))
	copy(out, r.categories)
	return out, nil
}
