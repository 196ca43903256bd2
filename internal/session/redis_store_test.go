package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := testStore(t, time.Hour)
	ctx := context.Background()

	rec := Record{
		UserID:    7,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		UserAgent: "test-agent",
		IP:        "203.0.113.9",
	}
	require.NoError(t, store.Create(ctx, "abc123", rec))

	got, err := store.Get(ctx, "abc123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec, *got)
}

func TestRedisStoreGetMissing(t *testing.T) {
	store, _ := testStore(t, time.Hour)

	got, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreCreateValidation(t *testing.T) {
	store, _ := testStore(t, time.Hour)
	ctx := context.Background()

	assert.Error(t, store.Create(ctx, "", Record{UserID: 7}))
	assert.Error(t, store.Create(ctx, "abc123", Record{}))
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := testStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "abc123", Record{UserID: 7}))

	mr.FastForward(2 * time.Hour)

	// Expired is indistinguishable from absent.
	got, err := store.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreRefreshResetsTTL(t *testing.T) {
	store, mr := testStore(t, time.Hour)
	ctx := context.Background()

	rec := Record{UserID: 7, CreatedAt: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, store.Create(ctx, "abc123", rec))

	mr.FastForward(30 * time.Minute)

	got, err := store.Refresh(ctx, "abc123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec, *got)

	// A second refresh right away leaves the data unchanged too.
	again, err := store.Refresh(ctx, "abc123")
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, rec, *again)

	// The window was reset: 30 minutes into the original TTL, another
	// full hour remains.
	assert.Equal(t, time.Hour, mr.TTL("session:abc123"))
}

func TestRedisStoreRefreshMissing(t *testing.T) {
	store, _ := testStore(t, time.Hour)

	got, err := store.Refresh(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreDelete(t *testing.T) {
	store, _ := testStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "abc123", Record{UserID: 7}))
	require.NoError(t, store.Delete(ctx, "abc123"))

	got, err := store.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreUserSnapshot(t *testing.T) {
	store, mr := testStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.PutUserSnapshot(ctx, 7, map[string]any{"id": 7, "name": "Bruno"}))

	val, err := mr.Get("user:7")
	require.NoError(t, err)
	assert.Contains(t, val, `"name":"Bruno"`)

	// Snapshot has no TTL.
	assert.Equal(t, time.Duration(0), mr.TTL("user:7"))
}
