package db

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/migrate"
	"storefront/internal/repository/kv"
)

// Backend is the durable key-value store selected by CART_BACKEND.
type Backend struct {
	Name  string
	Store kv.Store
	// Ping checks the backing service; nil for the memory backend.
	Ping  func(ctx context.Context) error
	Close func()
}

// OpenBackend connects the configured cart backend. For postgres the
// kv_entries migration is applied first when migrateUp is set.
func OpenBackend(ctx context.Context, cfg config.Config, migrateUp bool) (*Backend, error) {
	switch cfg.CartBackend {
	case config.BackendPostgres:
		pool, err := Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if migrateUp {
			if err := migrate.Apply(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
		}
		return &Backend{
			Name:  cfg.CartBackend,
			Store: kv.NewPostgres(pool),
			Ping:  pool.Ping,
			Close: pool.Close,
		}, nil
	case config.BackendRedis:
		client, err := ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return &Backend{
			Name:  cfg.CartBackend,
			Store: kv.NewRedis(client, "storefront:"),
			Ping: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			},
			Close: func() { _ = client.Close() },
		}, nil
	default:
		return &Backend{
			Name:  config.BackendMemory,
			Store: kv.NewMemory(),
			Close: func() {},
		}, nil
	}
}
