package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// CacheService defines the interface for the response cache.
type CacheService interface {
	// Get retrieves a value and unmarshals it into the 'dest' pointer.
	// Returns ErrMiss when the key is absent.
	Get(ctx context.Context, key string, dest interface{}) error

	// Set stores a value with a TTL. The implementation marshals the value.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error
}
