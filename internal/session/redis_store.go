package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	userKeyPrefix    = "user:"
)

// RedisStore keeps sessions in Redis with a fixed TTL. It also carries the
// `user:<id>` write-through snapshot written on sign-in.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store. The TTL applies to
// every Create and Refresh.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

func (r *RedisStore) Create(ctx context.Context, token string, rec Record) error {
	if token == "" || rec.UserID == 0 {
		return fmt.Errorf("session: missing token or user id")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	return r.client.Set(ctx, sessionKey(token), data, r.ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, token string) (*Record, error) {
	val, err := r.client.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return nil, nil // absent or expired
	}
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}

	return &rec, nil
}

// Refresh re-writes the stored record unchanged and resets its TTL. The
// write is idempotent: concurrent refreshes of the same token race only on
// the expiry window, never on the data.
func (r *RedisStore) Refresh(ctx context.Context, token string) (*Record, error) {
	rec, err := r.Get(ctx, token)
	if err != nil || rec == nil {
		return rec, err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("session: failed to marshal: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(token), data, r.ttl).Err(); err != nil {
		return nil, err
	}

	return rec, nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, sessionKey(token)).Err()
}

// PutUserSnapshot caches the signed-in user's record under `user:<id>`.
// The snapshot has no TTL; it is refreshed on every sign-in.
func (r *RedisStore) PutUserSnapshot(ctx context.Context, userID int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("session: failed to marshal user snapshot: %w", err)
	}
	return r.client.Set(ctx, fmt.Sprintf("%s%d", userKeyPrefix, userID), data, 0).Err()
}
