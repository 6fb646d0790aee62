package cart

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"
)

// Service is the cart store: the single owner of one cart's lines, mirrored
// to durable storage on every mutation.
//
// Mutations are serialized by mu. Each one re-reads the persisted lines
// right before merging so that writers sharing the same storage key observe
// each other; when the read fails, or the previous write failed and memory
// is ahead of storage, the in-memory lines are the base instead.
type Service struct {
	mu      sync.Mutex
	repo    cartrepo.Repository
	logger  *zap.Logger
	pricing domain.Pricing
	state   domain.CartSnapshot
	dirty   bool
}

type Option func(*Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithPricing(p domain.Pricing) Option {
	return func(s *Service) {
		s.pricing = p
	}
}

// New loads the cart from repo. Missing or unreadable data yields an empty
// cart; the failure is logged, never returned.
func New(ctx context.Context, repo cartrepo.Repository, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		logger:  zap.NewNop(),
		pricing: domain.DefaultPricing(),
		state:   domain.NewCartSnapshot(nil),
	}
	for _, opt := range opts {
		opt(s)
	}

	lines, err := repo.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.logger.Debug("no saved cart")
	case err != nil:
		s.logger.Warn("load cart failed, starting empty", zap.Error(err))
	default:
		s.state = domain.NewCartSnapshot(normalize(lines))
		s.logger.Debug("cart loaded",
			zap.Int("lines", len(s.state.Lines)),
			zap.Int("itemCount", s.state.ItemCount))
	}
	return s
}

// AddToCart merges quantity into the line for product, creating it when
// absent. A quantity below 1 adds a single unit.
func (s *Service) AddToCart(ctx context.Context, product domain.Product, quantity int) domain.CartSnapshot {
	if quantity < 1 {
		quantity = 1
	}
	return s.mutate(ctx, "add", func(lines []domain.CartLine) []domain.CartLine {
		for i := range lines {
			if lines[i].ID == product.ID {
				lines[i].Quantity += quantity
				return lines
			}
		}
		return append(lines, domain.LineFromProduct(product, quantity))
	})
}

// RemoveFromCart drops the line for productID. Absent ids are a no-op.
func (s *Service) RemoveFromCart(ctx context.Context, productID int) domain.CartSnapshot {
	return s.mutate(ctx, "remove", func(lines []domain.CartLine) []domain.CartLine {
		return removeLine(lines, productID)
	})
}

// UpdateQuantity sets the exact quantity for productID; quantity <= 0
// removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, productID, quantity int) domain.CartSnapshot {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, productID)
	}
	return s.mutate(ctx, "update", func(lines []domain.CartLine) []domain.CartLine {
		for i := range lines {
			if lines[i].ID == productID {
				lines[i].Quantity = quantity
			}
		}
		return lines
	})
}

func (s *Service) ClearCart(ctx context.Context) domain.CartSnapshot {
	return s.mutate(ctx, "clear", func([]domain.CartLine) []domain.CartLine {
		return nil
	})
}

func (s *Service) IsInCart(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Find(productID) >= 0
}

// ItemQuantity returns the quantity of productID, or 0 when absent.
func (s *Service) ItemQuantity(productID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.state.Find(productID); i >= 0 {
		return s.state.Lines[i].Quantity
	}
	return 0
}

func (s *Service) Snapshot() domain.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.NewCartSnapshot(s.state.Lines)
}

func (s *Service) Pricing() domain.Pricing {
	return s.pricing
}

func (s *Service) Summary() domain.CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pricing.Summarize(s.state)
}

func (s *Service) mutate(ctx context.Context, op string, apply func([]domain.CartLine) []domain.CartLine) domain.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := domain.NewCartSnapshot(apply(s.base(ctx)))
	if err := s.repo.Save(ctx, next.Lines); err != nil {
		s.dirty = true
		s.logger.Error("save cart failed", zap.String("op", op), zap.Error(err))
	} else {
		s.dirty = false
	}
	s.state = next

	s.logger.Debug("cart updated",
		zap.String("op", op),
		zap.Int("lines", len(next.Lines)),
		zap.Int("itemCount", next.ItemCount),
		zap.String("total", next.Total.StringFixed(2)))
	return domain.NewCartSnapshot(next.Lines)
}

// base returns a private copy of the lines the next mutation starts from.
// Callers hold mu.
func (s *Service) base(ctx context.Context) []domain.CartLine {
	if !s.dirty {
		lines, err := s.repo.Load(ctx)
		switch {
		case err == nil:
			return normalize(lines)
		case errors.Is(err, domain.ErrNotFound):
		default:
			s.logger.Warn("reload cart failed, using memory", zap.Error(err))
		}
	}
	out := make([]domain.CartLine, len(s.state.Lines))
	copy(out, s.state.Lines)
	return out
}

// normalize folds duplicate ids into the first occurrence and drops lines
// without a positive quantity.
func normalize(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(lines))
	index := make(map[int]int, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		if i, ok := index[l.ID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.ID] = len(out)
		out = append(out, l)
	}
	return out
}

func removeLine(lines []domain.CartLine, productID int) []domain.CartLine {
	out := lines[:0]
	for _, l := range lines {
		if l.ID != productID {
			out = append(out, l)
		}
	}
	return out
}
