package session

import (
	"context"
	"time"
)

// Record is the server-side session state. The client only ever holds the
// token, inside an HTTP-only cookie; the record body lives in the cache
// under `session:<token>`.
type Record struct {
	UserID    int       `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UserAgent string    `json:"userAgent"`
	IP        string    `json:"ip"`
}

// Store defines the session protocol against the cache.
// Get is a plain read; Refresh rewrites the record with a fresh TTL so that
// active sessions keep sliding forward. Both return (nil, nil) for a token
// the cache no longer holds: an expired session is indistinguishable from
// one that never existed.
type Store interface {
	Create(ctx context.Context, token string, rec Record) error
	Get(ctx context.Context, token string) (*Record, error)
	Refresh(ctx context.Context, token string) (*Record, error)
	Delete(ctx context.Context, token string) error
}
