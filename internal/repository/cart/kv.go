package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository/kv"
)

type kvRepo struct {
	store kv.Store
	key   string
}

// NewKV stores the lines as a JSON array under key.
func NewKV(store kv.Store, key string) Repository {
	if key == "" {
		key = DefaultKey
	}
	return &kvRepo{store: store, key: key}
}

func (r *kvRepo) Load(ctx context.Context) ([]domain.CartLine, error) {
	raw, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, err
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("decode cart %q: %w", r.key, err)
	}
	return lines, nil
}

func (r *kvRepo) Save(ctx context.Context, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart %q: %w", r.key, err)
	}
	if err := r.store.Put(ctx, r.key, raw); err != nil {
		return fmt.Errorf("write cart %q: %w", r.key, err)
	}
	return nil
}
