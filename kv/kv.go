package kv

import (
	"context"
	"time"
)

// Store is the minimal capability contract a key-value store must satisfy to
// back a memoized function. Values are opaque bytes; expiry is entirely the
// store's responsibility via the TTL passed to Put.
type Store interface {
	// Get returns the value bytes for key. The bool reports whether the key
	// was present: (nil, false, nil) is a store-reported absence, which is
	// distinct from a stored empty value. Errors report store faults (I/O,
	// timeouts), not absence.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key with the given TTL. The store may consider
	// the entry expired after the TTL elapses.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// DefaultQueryTimeout is the per-operation timeout applied by I/O-backed
// stores (Redis, SQLite). Prevents indefinite hangs on slow or unresponsive
// storage.
const DefaultQueryTimeout = 5 * time.Second

// config holds the resolved configuration for a store implementation.
type config struct {
	queryTimeout time.Duration
	expiryCheck  time.Duration
	prefix       string
}

// Option configures a Store implementation.
type Option func(*config)

func defaultConfig() config {
	return config{
		queryTimeout: DefaultQueryTimeout,
		expiryCheck:  time.Minute,
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithQueryTimeout sets the per-operation timeout for I/O-backed stores
// (Redis, SQLite). Defaults to DefaultQueryTimeout (5 seconds).
func WithQueryTimeout(d time.Duration) Option {
	return func(c *config) { c.queryTimeout = d }
}

// WithExpiryCheck sets the interval for background expired entry cleanup.
// Applies to the InMemory and SQLite stores. Defaults to 1 minute.
func WithExpiryCheck(d time.Duration) Option {
	return func(c *config) { c.expiryCheck = d }
}

// WithPrefix sets a key prefix for namespacing store keys.
// Applies to the Redis store. Defaults to empty (no prefix).
func WithPrefix(p string) Option {
	return func(c *config) { c.prefix = p }
}
