package kv

import (
	"context"
	"time"
)

// Composite chains multiple Stores together.
// Get checks stores in order and returns the first hit.
// Put and Delete apply to all stores.
type Composite struct {
	stores []Store
}

var _ Store = (*Composite)(nil)

// NewComposite returns a Store that chains the given stores.
// At least one store must be provided; panics if empty.
func NewComposite(stores ...Store) *Composite {
	if len(stores) == 0 {
		panic("kv: NewComposite requires at least one store")
	}
	return &Composite{stores: stores}
}

func (c *Composite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	for _, store := range c.stores {
		value, found, err := store.Get(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if found {
			return value, true, nil
		}
	}
	return nil, false, nil
}

func (c *Composite) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var firstErr error
	for _, store := range c.stores {
		if err := store.Put(ctx, key, value, ttl); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *Composite) Delete(ctx context.Context, key string) error {
	var firstErr error
	for _, store := range c.stores {
		if err := store.Delete(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
