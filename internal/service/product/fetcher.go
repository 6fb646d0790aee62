package product

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

// DefaultPageLimit is the page size requested from the catalog.
const DefaultPageLimit = 8

// FetchState is the feed as seen by the list view.
type FetchState struct {
	Products []domain.Product `json:"products"`
	Loading  bool             `json:"loading"`
	Error    string           `json:"error,omitempty"`
	HasMore  bool             `json:"hasMore"`
	Page     int              `json:"page"`
	Category string           `json:"category"`
}

// Fetcher accumulates catalog pages for one category at a time.
//
// Every Reset starts a new generation. A fetch remembers the generation it
// was issued under and its result is dropped if the generation moved on
// while it was in flight. The superseded request's context is also
// cancelled.
type Fetcher struct {
	repo   productrepo.Repository
	limit  int
	logger *zap.Logger

	mu         sync.Mutex
	state      FetchState
	generation uint64
	cancel     context.CancelFunc
}

type FetcherOption func(*Fetcher)

func WithPageLimit(limit int) FetcherOption {
	return func(f *Fetcher) {
		if limit > 0 {
			f.limit = limit
		}
	}
}

func WithFetcherLogger(logger *zap.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher returns an idle fetcher for the "all" category. Nothing is
// requested until Reset.
func NewFetcher(repo productrepo.Repository, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		repo:   repo,
		limit:  DefaultPageLimit,
		logger: zap.NewNop(),
		state: FetchState{
			Products: []domain.Product{},
			HasMore:  true,
			Page:     1,
			Category: domain.AllCategories,
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fetcher) Limit() int {
	return f.limit
}

// Started reports whether any page was ever requested.
func (f *Fetcher) Started() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generation > 0
}

// State returns a copy of the current feed.
func (f *Fetcher) State() FetchState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

// Reset switches to category, clears the feed and loads page 1. Any fetch
// still in flight for the previous generation is abandoned.
func (f *Fetcher) Reset(ctx context.Context, category string) FetchState {
	if category == "" {
		category = domain.AllCategories
	}
	f.mu.Lock()
	f.state.Products = []domain.Product{}
	f.state.Page = 1
	f.state.HasMore = true
	f.state.Category = category
	req := f.begin(ctx, 1, true)
	f.mu.Unlock()

	return f.run(req)
}

// LoadMore appends the next page. It returns false without fetching when a
// fetch is already running or the feed is exhausted. While the feed is still
// empty (page 1 failed) it requests page 1 again.
func (f *Fetcher) LoadMore(ctx context.Context) (FetchState, bool) {
	f.mu.Lock()
	if f.state.Loading || !f.state.HasMore {
		st := f.snapshot()
		f.mu.Unlock()
		return st, false
	}
	page := f.state.Page + 1
	if len(f.state.Products) == 0 {
		page = 1
	}
	req := f.begin(ctx, page, false)
	f.mu.Unlock()

	return f.run(req), true
}

// Refetch reloads page 1 of the current category, replacing the feed once
// the page arrives.
func (f *Fetcher) Refetch(ctx context.Context) FetchState {
	f.mu.Lock()
	req := f.begin(ctx, 1, true)
	f.mu.Unlock()

	return f.run(req)
}

type fetchRequest struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	query      productrepo.ListQuery
	replace    bool
}

// begin marks the feed as loading and issues a request token. Replacing
// fetches open a new generation and cancel the previous one. Callers hold mu.
func (f *Fetcher) begin(ctx context.Context, page int, replace bool) fetchRequest {
	if replace {
		if f.cancel != nil {
			f.cancel()
		}
		f.generation++
	}
	reqCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.state.Loading = true
	f.state.Error = ""
	return fetchRequest{
		ctx:        reqCtx,
		cancel:     cancel,
		generation: f.generation,
		query: productrepo.ListQuery{
			Category: f.state.Category,
			Page:     page,
			Limit:    f.limit,
		},
		replace: replace,
	}
}

func (f *Fetcher) run(req fetchRequest) FetchState {
	products, err := f.repo.List(req.ctx, req.query)
	req.cancel()

	f.mu.Lock()
	defer f.mu.Unlock()

	if req.generation != f.generation {
		f.logger.Debug("discarding stale page",
			zap.String("category", req.query.Category),
			zap.Int("page", req.query.Page))
		return f.snapshot()
	}

	f.state.Loading = false
	if err != nil {
		if errors.Is(err, context.Canceled) && req.ctx.Err() != nil {
			f.state.Error = "request cancelled"
		} else {
			f.state.Error = err.Error()
		}
		f.logger.Warn("fetch products failed",
			zap.String("category", req.query.Category),
			zap.Int("page", req.query.Page),
			zap.Error(err))
		return f.snapshot()
	}

	if req.replace {
		f.state.Products = append([]domain.Product{}, products...)
	} else {
		f.state.Products = append(f.state.Products, products...)
	}
	f.state.HasMore = len(products) == f.limit
	f.state.Page = req.query.Page
	return f.snapshot()
}

// Callers hold mu.
func (f *Fetcher) snapshot() FetchState {
	st := f.state
	st.Products = make([]domain.Product, len(f.state.Products))
	copy(st.Products, f.state.Products)
	return st
}
