package token

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"storefront/internal/domain"
	"storefront/internal/repository/kv"
)

func TestKV_CreateGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewKV(kv.NewMemory())
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := repo.Create(ctx, Token{Token: "abc", SessionID: "s1", ExpiresAt: expires}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, Token{Token: "abc", SessionID: "s2"}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	got, err := repo.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SessionID != "s1" || !got.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected token %+v", got)
	}

	if err := repo.Delete(ctx, "abc"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "abc"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestKV_KeysDoNotCollideWithCarts(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	_ = store.Put(ctx, "ecommerce-cart", []byte(`[]`))

	if err := NewKV(store).Create(ctx, Token{Token: "ecommerce-cart", SessionID: "s"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	raw, _ := store.Get(ctx, "ecommerce-cart")
	if string(raw) != "[]" {
		t.Fatalf("cart key overwritten: %s", raw)
	}
}

func TestKV_ConcurrentCreateHasOneWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewKV(kv.NewMemory())

	var created atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Create(ctx, Token{Token: "same", SessionID: "s"})
			switch {
			case err == nil:
				created.Add(1)
			case !errors.Is(err, domain.ErrAlreadyExists):
				t.Errorf("create: %v", err)
			}
		}()
	}
	wg.Wait()

	if created.Load() != 1 {
		t.Fatalf("expected one successful create, got %d", created.Load())
	}
}

func TestKV_TokenExpiresInStorage(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := NewKV(kv.NewRedis(client, "storefront:"))

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	err := repo.Create(ctx, Token{Token: "abc", SessionID: "s1", CreatedAt: created, ExpiresAt: created.Add(time.Hour)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ttl := mr.TTL("storefront:session-token:abc"); ttl != time.Hour {
		t.Fatalf("expected 1h storage ttl, got %s", ttl)
	}

	mr.FastForward(time.Hour + time.Second)
	if _, err := repo.Get(ctx, "abc"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected token gone from storage, got %v", err)
	}
}
