package kvstore

import (
	"context"
	"time"
)

// Store is a small keyed state backend. The pipeline keeps only ephemeral
// operational state in it (freshness markers, counters), so an in-memory
// implementation is acceptable; Redis makes the state survive restarts.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes a value; ttl of zero means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Increment(ctx context.Context, key string) (int64, error)
	Delete(ctx context.Context, key string) error
}
