package token

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository/kv"
)

// keyPrefix namespaces token entries away from cart keys.
const keyPrefix = "session-token:"

type kvRepo struct {
	store kv.Store
}

// NewKV keeps tokens in the same store as the carts, so sessions outlive a
// process restart whenever the carts do.
func NewKV(store kv.Store) Repository {
	return &kvRepo{store: store}
}

// Create stores token with a storage TTL matching its lifetime, so tokens
// nobody presents again still disappear from the store.
func (r *kvRepo) Create(ctx context.Context, token Token) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	created := token.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	ttl := token.ExpiresAt.Sub(created)
	if token.ExpiresAt.IsZero() || ttl <= 0 {
		ttl = 0
	}
	ok, err := r.store.PutIfAbsent(ctx, keyPrefix+token.Token, raw, ttl)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAlreadyExists
	}
	return nil
}

func (r *kvRepo) Get(ctx context.Context, token string) (*Token, error) {
	raw, err := r.store.Get(ctx, keyPrefix+token)
	if err != nil {
		return nil, err
	}
	var out Token
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return &out, nil
}

func (r *kvRepo) Delete(ctx context.Context, token string) error {
	return r.store.Delete(ctx, keyPrefix+token)
}
