package kv

import (
	"context"
	"time"
)

// Store is a string-keyed byte store. Get returns domain.ErrNotFound for a
// key that was never written or whose entry has expired. Deleting a missing
// key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Put writes value with no expiry, replacing any entry under key.
	Put(ctx context.Context, key string, value []byte) error
	// PutIfAbsent writes value only when key holds no live entry and reports
	// whether it did. A positive ttl expires the entry.
	PutIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

// Purger is implemented by stores that keep expired entries around until
// they are purged. Redis expires keys itself and does not need it.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}
