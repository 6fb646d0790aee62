package product

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"storefront/internal/domain"
)

func TestService_GetCollapsesConcurrentLookups(t *testing.T) {
	var lookups atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	catalog := &stubCatalog{get: func(_ context.Context, id int) (*domain.Product, error) {
		if lookups.Add(1) == 1 {
			close(entered)
		}
		<-release
		return &domain.Product{ID: id, Title: "Phone"}, nil
	}}
	svc := New(catalog)

	first := make(chan *domain.Product)
	go func() {
		p, _ := svc.Get(context.Background(), 7)
		first <- p
	}()
	<-entered

	var wg sync.WaitGroup
	results := make([]*domain.Product, 3)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := svc.Get(context.Background(), 7)
			if err != nil {
				t.Errorf("get: %v", err)
			}
			results[i] = p
		}(i)
	}
	close(release)
	wg.Wait()
	p0 := <-first

	if p0 == nil || p0.ID != 7 {
		t.Fatalf("unexpected product %+v", p0)
	}
	p0.Title = "changed"
	for _, p := range results {
		if p == nil || p.Title != "Phone" {
			t.Fatalf("results share memory: %+v", p)
		}
	}
}

func TestService_GetSurvivesFirstCallerCancel(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	sharedErr := make(chan error, 2)
	var once sync.Once
	catalog := &stubCatalog{get: func(ctx context.Context, id int) (*domain.Product, error) {
		once.Do(func() { close(entered) })
		<-release
		sharedErr <- ctx.Err()
		return &domain.Product{ID: id, Title: "Phone"}, nil
	}}
	svc := New(catalog)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Get(ctx, 7)
		firstErr <- err
	}()
	<-entered

	second := make(chan *domain.Product, 1)
	go func() {
		p, err := svc.Get(context.Background(), 7)
		if err != nil {
			t.Errorf("second caller: %v", err)
		}
		second <- p
	}()

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected first caller to stop with its own cancel, got %v", err)
	}

	close(release)
	if err := <-sharedErr; err != nil {
		t.Fatalf("shared lookup saw the first caller's cancel: %v", err)
	}
	if p := <-second; p == nil || p.ID != 7 {
		t.Fatalf("unexpected product for second caller %+v", p)
	}
}

func TestService_GetNotFound(t *testing.T) {
	catalog := &stubCatalog{get: func(context.Context, int) (*domain.Product, error) {
		return nil, domain.ErrNotFound
	}}
	if _, err := New(catalog).Get(context.Background(), 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
