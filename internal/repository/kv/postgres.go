package kv

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/domain"
)

type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres stores entries in the kv_entries table. Expired rows stay
// invisible until PurgeExpired removes them.
func NewPostgres(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

func (s *postgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `
SELECT value::text
FROM kv_entries
WHERE key = $1
  AND (expires_at IS NULL OR expires_at > now())
`
	var value string
	if err := s.pool.QueryRow(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return []byte(value), nil
}

func (s *postgresStore) Put(ctx context.Context, key string, value []byte) error {
	const q = `
INSERT INTO kv_entries (key, value, updated_at, expires_at)
VALUES ($1, $2::jsonb, now(), NULL)
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = EXCLUDED.updated_at,
    expires_at = NULL
`
	_, err := s.pool.Exec(ctx, q, key, string(value))
	return err
}

// PutIfAbsent inserts the row, or takes over a row that has already expired.
func (s *postgresStore) PutIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	const q = `
INSERT INTO kv_entries (key, value, updated_at, expires_at)
VALUES ($1, $2::jsonb, now(), $3)
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = EXCLUDED.updated_at,
    expires_at = EXCLUDED.expires_at
WHERE kv_entries.expires_at IS NOT NULL
  AND kv_entries.expires_at <= now()
`
	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expiresAt = &t
	}
	cmd, err := s.pool.Exec(ctx, q, key, string(value), expiresAt)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (s *postgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key)
	return err
}

func (s *postgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM kv_entries WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
