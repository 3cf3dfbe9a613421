package memoize

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/agentuity/go-memoize/kv"
)

// ErrBypass is the bypass sentinel. A KeyFunc returns it to skip caching for
// a single call: the wrapped function is invoked directly and the store is
// never touched.
var ErrBypass = errors.New("memoize: bypass")

// ErrNotAStore is returned on first store use when the resolved binding does
// not satisfy the kv.Store capability contract.
var ErrNotAStore = errors.New("memoize: binding does not satisfy kv.Store")

// Bypass is a ready-made KeyFunc that skips caching for every call.
func Bypass(context.Context, ...any) (string, error) {
	return "", ErrBypass
}

// Func is the shape of a memoizable function. The context is explicit
// call-site state and is propagated unchanged to the original function.
type Func[T any] func(ctx context.Context, args ...any) (T, error)

// Factory produces wrapped functions sharing a store resolver and a set of
// default Options.
type Factory struct {
	resolver kv.Resolver
	defaults Options
}

// New returns a Factory. Per-wrap Options passed to Wrap are merged over
// defaults, the per-wrap value winning for any field set in both.
// Panics if resolver is nil.
func New(resolver kv.Resolver, defaults Options) *Factory {
	if resolver == nil {
		panic("memoize: New requires a resolver")
	}
	return &Factory{resolver: resolver, defaults: defaults}
}

// Wrap returns a memoized variant of fn. Configuration is validated here,
// before any call is made: an invalid key, a missing or too-short TTL, or a
// nil fn fail immediately.
func Wrap[T any](f *Factory, fn Func[T], opts Options) (*Wrapped[T], error) {
	if fn == nil {
		return nil, errors.New("memoize: Wrap requires a function")
	}
	cfg, err := newConfig(fn, opts.merge(f.defaults))
	if err != nil {
		return nil, err
	}
	return &Wrapped[T]{fn: fn, cfg: cfg, resolver: f.resolver}, nil
}

// Wrapped is a memoized function instance. It owns one lazily resolved store
// handle, reused across Call, Get, Set and Clear for its lifetime.
type Wrapped[T any] struct {
	fn       Func[T]
	cfg      config
	resolver kv.Resolver
	store    atomic.Pointer[storeRef]
}

// storeRef boxes the store interface so the memoized handle can be published
// with a single atomic pointer store.
type storeRef struct {
	store kv.Store
}

// Call invokes the memoized function. On a cache hit the original function is
// not invoked. On a miss the original function runs and its result is written
// back best-effort: the write's outcome is never observed by the caller.
func (w *Wrapped[T]) Call(ctx context.Context, args ...any) (T, error) {
	var zero T
	key, bypass, err := w.deriveKey(ctx, args)
	if err != nil {
		return zero, err
	}
	if bypass {
		return w.fn(ctx, args...)
	}
	store, err := w.resolveStore(ctx)
	if err != nil {
		return zero, err
	}
	val, found, err := w.cfg.get(ctx, store, key)
	if err != nil {
		return zero, err
	}
	if found {
		if typed, ok := decode[T](w.cfg.codec, val); ok {
			return typed, nil
		}
		// Undecodable stored value reads as a miss; the fresh result below
		// overwrites it.
	}
	result, err := w.fn(ctx, args...)
	if err != nil {
		return zero, err
	}
	_ = w.cfg.set(ctx, store, key, result, w.cfg.ttl)
	return result, nil
}

// Raw invokes the original function directly, bypassing key derivation and
// the store entirely.
func (w *Wrapped[T]) Raw(ctx context.Context, args ...any) (T, error) {
	return w.fn(ctx, args...)
}

// Get reports the cached value for the key derived from args. A bypass
// derivation reports absence without touching the store.
func (w *Wrapped[T]) Get(ctx context.Context, args ...any) (bool, T, error) {
	var zero T
	key, bypass, err := w.deriveKey(ctx, args)
	if err != nil {
		return false, zero, err
	}
	if bypass {
		return false, zero, nil
	}
	store, err := w.resolveStore(ctx)
	if err != nil {
		return false, zero, err
	}
	val, found, err := w.cfg.get(ctx, store, key)
	if err != nil {
		return false, zero, err
	}
	if !found {
		return false, zero, nil
	}
	typed, ok := decode[T](w.cfg.codec, val)
	if !ok {
		return false, zero, nil
	}
	return true, typed, nil
}

// Set stores value under the key derived from args without invoking the
// original function. A bypass derivation is a no-op.
func (w *Wrapped[T]) Set(ctx context.Context, value T, args ...any) error {
	key, bypass, err := w.deriveKey(ctx, args)
	if err != nil {
		return err
	}
	if bypass {
		return nil
	}
	store, err := w.resolveStore(ctx)
	if err != nil {
		return err
	}
	return w.cfg.set(ctx, store, key, value, w.cfg.ttl)
}

// Clear removes the entry under the key derived from args. A bypass
// derivation is a no-op. Store faults are swallowed like any other write.
func (w *Wrapped[T]) Clear(ctx context.Context, args ...any) error {
	key, bypass, err := w.deriveKey(ctx, args)
	if err != nil {
		return err
	}
	if bypass {
		return nil
	}
	store, err := w.resolveStore(ctx)
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, key); err != nil {
		w.cfg.log.Debug("store delete failed for %q: %s", key, err)
	}
	return nil
}

// deriveKey computes the prefixed cache key for args, or reports bypass.
func (w *Wrapped[T]) deriveKey(ctx context.Context, args []any) (string, bool, error) {
	if w.cfg.keyFn == nil {
		return w.cfg.prefix + w.cfg.staticKey, false, nil
	}
	key, err := w.cfg.keyFn(ctx, args...)
	if errors.Is(err, ErrBypass) {
		return "", true, nil
	}
	if err != nil {
		return "", false, err
	}
	return w.cfg.prefix + key, false, nil
}

// resolveStore resolves the binding at most once per instance and publishes
// the handle with an atomic store. Concurrent first calls may each resolve
// and publish; the race is accepted because re-resolution is idempotent and a
// lock here would serialize every cache touch.
func (w *Wrapped[T]) resolveStore(ctx context.Context) (kv.Store, error) {
	if ref := w.store.Load(); ref != nil {
		return ref.store, nil
	}
	handle, err := w.resolver.Resolve(ctx, w.cfg.binding)
	if err != nil {
		return nil, err
	}
	store, ok := handle.(kv.Store)
	if !ok {
		return nil, fmt.Errorf("%w: binding %q resolved to %T", ErrNotAStore, w.cfg.binding, handle)
	}
	w.store.Store(&storeRef{store: store})
	return store, nil
}
