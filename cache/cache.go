package cache

import (
	"context"
	"time"
)

// Repository is an interface for the cache both loops write their results to. It also holds the queue external
// producers push search requests to.
type Repository interface {
	// Get returns the value stored under key, the boolean is false if it doesn't exist or expired
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key until the ttl runs out, the last write wins
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// PopFront removes and returns the oldest entry of a queue without blocking
	PopFront(ctx context.Context, queue string) ([]byte, bool, error)
	// PushBack appends an entry to a queue
	PushBack(ctx context.Context, queue string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}
