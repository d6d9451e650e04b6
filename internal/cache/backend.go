// Package cache implements the namespaced TTL caches used by the resource aggregator:
// a JSON envelope store over a key-value backend and an in-process blob cache.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a Backend when the key does not exist
var ErrNotFound = errors.New("cache key not found")

// Backend is the raw key-value storage behind a Store
type Backend interface {
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key. A positive expiration lets the backend drop the key on its own;
	// freshness is still decided by the Store.
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists every key starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
