package product

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"storefront/internal/domain"
)

func newTestRepo(t *testing.T, handler http.HandlerFunc) Repository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTP(srv.URL+"/api/", srv.Client(), nil)
}

func TestHTTP_ListAllCategories(t *testing.T) {
	var gotPath, gotQuery string
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"SUCCESS","products":[{"id":1,"title":"Phone","price":199.99,"discount":10.4,"category":"mobile"}]}`))
	})

	products, err := repo.List(context.Background(), ListQuery{Category: domain.AllCategories, Page: 2, Limit: 8})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotPath != "/api/products" || gotQuery != "limit=8&page=2" {
		t.Fatalf("unexpected request %s?%s", gotPath, gotQuery)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	p := products[0]
	if !p.Price.Equal(decimal.RequireFromString("199.99")) || p.Discount == nil || *p.Discount != 10 {
		t.Fatalf("unexpected product %+v", p)
	}
}

func TestHTTP_ListByCategoryBareArray(t *testing.T) {
	var gotPath, gotType string
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotType = r.URL.Path, r.URL.Query().Get("type")
		_, _ = w.Write([]byte(`[{"id":4,"title":"TV","price":"499.00"},{"id":5,"title":"TV 2","price":599}]`))
	})

	products, err := repo.List(context.Background(), ListQuery{Category: "tv", Page: 1, Limit: 8})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotPath != "/api/products/category" || gotType != "tv" {
		t.Fatalf("unexpected request path=%s type=%s", gotPath, gotType)
	}
	if len(products) != 2 || products[1].ID != 5 {
		t.Fatalf("unexpected products %+v", products)
	}
}

func TestHTTP_ListStatusError(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := repo.List(context.Background(), ListQuery{Page: 1, Limit: 8})
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusInternalServerError {
		t.Fatalf("expected status error, got %v", err)
	}
	if err.Error() != "http error: status 500" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestHTTP_ListMalformedBody(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})
	if _, err := repo.List(context.Background(), ListQuery{Page: 1, Limit: 8}); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestHTTP_GetByID(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products/3":
			_, _ = w.Write([]byte(`{"status":"SUCCESS","product":{"id":3,"title":"Buds","price":24.99,"brand":"acme"}}`))
		case "/api/products/4":
			_, _ = w.Write([]byte(`{"id":4,"title":"Case","price":9.5}`))
		default:
			http.NotFound(w, r)
		}
	})

	p, err := repo.GetByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("get wrapped: %v", err)
	}
	if p.ID != 3 || p.Brand != "acme" {
		t.Fatalf("unexpected product %+v", p)
	}

	p, err = repo.GetByID(context.Background(), 4)
	if err != nil {
		t.Fatalf("get bare: %v", err)
	}
	if p.ID != 4 || !p.Price.Equal(decimal.RequireFromString("9.5")) {
		t.Fatalf("unexpected product %+v", p)
	}

	if _, err := repo.GetByID(context.Background(), 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
