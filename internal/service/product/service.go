package product

import (
	"context"
	"strconv"

	"golang.org/x/sync/singleflight"
	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

// Service serves single-product lookups for the detail view.
type Service struct {
	repo productrepo.Repository
	sfg  singleflight.Group // collapses concurrent lookups of one id
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Get returns a copy of product id. Concurrent callers share one lookup,
// which runs detached from any single caller's cancellation; each caller
// still stops waiting when its own ctx is done.
func (s *Service) Get(ctx context.Context, id int) (*domain.Product, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.sfg.DoChan(strconv.Itoa(id), func() (interface{}, error) {
		return s.repo.GetByID(shared, id)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		p := *res.Val.(*domain.Product)
		return &p, nil
	}
}
