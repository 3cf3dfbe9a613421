// Package kv defines the minimal key-value store capability contract used by
// the memoize package, along with several Store implementations and a binding
// Registry.
//
// # Store Interface
//
// The [Store] interface defines three operations: [Store.Get], [Store.Put],
// and [Store.Delete]. Values are opaque bytes and every entry carries a TTL;
// expiry is entirely the store's responsibility. Get reports absence through
// its bool return rather than an error, so a missing key is distinct from a
// store fault and from a stored empty value.
//
// # Implementations
//
//   - [NewInMemory] — In-process map guarded by a mutex. Fastest option.
//     Expired entries are cleaned up lazily and by a background goroutine at
//     a configurable interval. Lost on process restart.
//
//   - [NewSQLite] — Backed by a SQLite database using [modernc.org/sqlite]
//     (pure Go, no CGO). Supports file-backed and ":memory:" modes. WAL mode
//     is enabled for concurrent read performance. Each operation uses a
//     per-query timeout ([DefaultQueryTimeout]).
//
//   - [NewBolt] — Backed by a [go.etcd.io/bbolt] database file. Values carry
//     an 8-byte expiry prefix; expired entries read as absent. A good fit
//     when persistence is needed without a second process.
//
//   - [NewRedis] — Backed by Redis using [github.com/redis/go-redis/v9].
//     Expiry uses native Redis TTL. An optional key prefix supports
//     namespacing multiple stores on the same instance. The caller owns the
//     redis.Client lifecycle. Each operation uses a per-query timeout.
//
//   - [NewComposite] — Chains multiple Stores: Get returns the first hit
//     (checked left to right), Put and Delete apply to all. Enables
//     multi-tier topologies such as in-memory L1 backed by Redis L2.
//
// # Binding Resolution
//
// [Registry] maps binding names to store handles. Handles are registered as
// any and resolved as any: the memoize layer performs the capability check
// when it first touches the store, so a misregistered handle fails at the
// point of use with an error naming the binding. [ResolverFunc] adapts a
// plain function for tests or custom environments.
package kv
