package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "penden-test")
}

func TestRedisStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	st := newRedisStore(t)

	_, err := st.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Set(ctx, "token", "abc123"))
	v, err := st.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "abc123", v)

	require.NoError(t, st.Delete(ctx, "token"))
	_, err = st.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_KeysArePrefixed(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	st := NewRedisStore(client, "penden")
	require.NoError(t, st.Set(ctx, "cart", "{}"))

	assert.True(t, mr.Exists("penden:cart"))
	assert.False(t, mr.Exists("cart"))
}

func TestRedisStore_EntriesExpire(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	st := NewRedisStore(client, "penden")
	require.NoError(t, st.Set(ctx, "token", "abc"))

	mr.FastForward(st.ttl + 1)
	_, err := st.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrNotFound)
}
