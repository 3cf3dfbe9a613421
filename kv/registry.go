package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownBinding is returned by Registry.Resolve when no store has been
// registered under the requested binding name.
var ErrUnknownBinding = errors.New("kv: unknown binding")

// Resolver maps a binding name to a store handle. Resolve returns the handle
// as any; the consumer is responsible for checking that the handle satisfies
// the Store capability contract (a handle registered under a name is not
// guaranteed to be a Store).
type Resolver interface {
	Resolve(ctx context.Context, binding string) (any, error)
}

// Registry is a concurrent-safe binding environment: a name to store-handle
// map populated by the application at startup. It is the explicit form of an
// ambient runtime registry, injected so the dependency is substitutable in
// tests.
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]any
}

var _ Resolver = (*Registry)(nil)

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[string]any)}
}

// Register associates handle with the binding name, replacing any previous
// registration under the same name.
func (r *Registry) Register(binding string, handle any) {
	r.mu.Lock()
	r.bindings[binding] = handle
	r.mu.Unlock()
}

// Resolve returns the handle registered under binding, or an error wrapping
// ErrUnknownBinding naming the missing binding.
func (r *Registry) Resolve(_ context.Context, binding string) (any, error) {
	r.mu.RLock()
	handle, ok := r.bindings[binding]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBinding, binding)
	}
	return handle, nil
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, binding string) (any, error)

func (f ResolverFunc) Resolve(ctx context.Context, binding string) (any, error) {
	return f(ctx, binding)
}
