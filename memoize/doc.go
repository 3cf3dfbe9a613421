// Package memoize turns a function into a cached variant backed by an
// external key-value store. Results are stored under a derived key with a
// TTL; the store is an injected collaborator satisfying the minimal
// [kv.Store] contract, so this package carries no storage engine, no
// eviction policy and no in-process cache of its own.
//
// # Wrapping a Function
//
// A [Factory] holds the store resolver and default [Options]. [Wrap] merges
// per-function Options over the defaults and validates the result before any
// call is made:
//
//	registry := kv.NewRegistry()
//	registry.Register("KV", kv.NewRedis(client))
//
//	f := memoize.New(registry, memoize.Options{TTL: 5 * time.Minute, Prefix: "users:"})
//
//	fetchUser := func(ctx context.Context, args ...any) (User, error) {
//	    return queries.GetUser(ctx, args[0].(string))
//	}
//	cached, err := memoize.Wrap(f, fetchUser, memoize.Options{
//	    Key: memoize.KeyFunc(func(ctx context.Context, args ...any) (string, error) {
//	        return args[0].(string), nil
//	    }),
//	})
//
//	user, err := cached.Call(ctx, "u123")  // miss: queries and stores
//	user, err = cached.Call(ctx, "u123")   // hit: store only
//
// [Wrap] is a package-level generic function rather than a Factory method
// because Go does not allow generic methods.
//
// # Keys
//
// A string Key caches every call of the function under one fixed key — the
// common case for zero-argument fetches. A [KeyFunc] derives the key from the
// call arguments instead, and may return [ErrBypass] to skip caching for a
// single call (the original function then runs with no store interaction).
// The configured Prefix is prepended in both modes. When Key is unset, the
// function's declared name is used.
//
// # Wrapped Surface
//
// Besides [Wrapped.Call], a wrapped function exposes [Wrapped.Raw] (invoke
// the original directly), [Wrapped.Get] (peek at the cache; the bool return
// distinguishes absence from a stored zero value), [Wrapped.Set] (store a
// value without invoking), and [Wrapped.Clear] (delete the entry).
//
// # Store Resolution
//
// The store is looked up by binding name through the injected [kv.Resolver]
// on the first cache-touching call, capability-checked against [kv.Store],
// and the handle is reused for the instance's lifetime. A missing binding or
// a handle that is not a Store fails that first call with an error naming the
// binding.
//
// # Error Handling
//
// Configuration problems fail at wrap time. Key-derivation errors, store
// resolution errors and the original function's errors propagate to the
// caller unchanged. Store faults never do: a failed or undecodable read is a
// miss, a failed write is dropped (visible only as a debug log when a Logger
// is configured). The cache is an optimization layer, not a consistency
// boundary — it may only ever degrade to "empty", never fail the primary
// operation.
//
// # Serialization
//
// Values round-trip through a [Codec]: [JSON] by default, [Msgpack] as a
// compact binary alternative. A custom [GetFunc]/[SetFunc] pair replaces the
// strategy entirely, for stores whose raw representation is not produced by
// this package.
package memoize
