// Package cache stores text-generation responses so that repeated runs over
// the same articles do not spend model quota twice.
package cache

import (
	"context"
	"time"
)

// KeyPrefix namespaces every key written by newsverdict.
const KeyPrefix = "newsverdict:"

// Cache is a string key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. found is false on a miss.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Close releases the underlying resources.
	Close() error
}
