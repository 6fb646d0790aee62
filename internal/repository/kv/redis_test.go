package kv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront/internal/domain"
)

func setupTestRedis(t *testing.T) (Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, "test:"), mr
}

func TestRedis_PutAndGet(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "ecommerce-cart", []byte(`[{"id":1}]`)))

	got, err := store.Get(ctx, "ecommerce-cart")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(got))

	raw, err := mr.Get("test:ecommerce-cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, raw)
	assert.Zero(t, mr.TTL("test:ecommerce-cart"))
}

func TestRedis_GetMissing(t *testing.T) {
	store, _ := setupTestRedis(t)
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedis_Delete(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", []byte(`[]`)))
	require.NoError(t, store.Delete(ctx, "k"))
	assert.False(t, mr.Exists("test:k"))
	assert.NoError(t, store.Delete(ctx, "k"))
}

func TestRedis_PutIfAbsent(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	ok, err := store.PutIfAbsent(ctx, "session-token:abc", []byte(`{"sessionId":"s1"}`), time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Hour, mr.TTL("test:session-token:abc"))

	ok, err = store.PutIfAbsent(ctx, "session-token:abc", []byte(`{"sessionId":"s2"}`), time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, "session-token:abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ok, err = store.PutIfAbsent(ctx, "session-token:abc", []byte(`{"sessionId":"s3"}`), time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedis_ServerDown(t *testing.T) {
	store, mr := setupTestRedis(t)
	mr.Close()

	_, err := store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	assert.Error(t, store.Put(context.Background(), "k", []byte(`[]`)))
}
