package category

import (
	"context"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/repository/category"
)

type Service struct {
	repo category.Repository
}

func New(repo category.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

// Resolve normalizes slug and returns the matching category. An empty slug
// resolves to the "all" category.
func (s *Service) Resolve(ctx context.Context, slug string) (*domain.Category, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		slug = domain.AllCategories
	}
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}
