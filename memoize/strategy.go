package memoize

import (
	"context"
	"time"

	"github.com/agentuity/go-common/logger"

	"github.com/agentuity/go-memoize/kv"
)

// defaultGet reads raw bytes for the key. Store faults and store-reported
// absence both read as a miss: the cache is an optimization layer, so a
// failing read must degrade to "not cached", never to a caller-visible error.
func defaultGet(log logger.Logger) GetFunc {
	return func(ctx context.Context, store kv.Store, key string) (any, bool, error) {
		data, found, err := store.Get(ctx, key)
		if err != nil {
			log.Debug("store read failed for %q, treating as miss: %s", key, err)
			return nil, false, nil
		}
		if !found {
			return nil, false, nil
		}
		return data, true, nil
	}
}

// defaultSet serializes val with the codec and writes it with the TTL
// truncated to whole seconds. Marshal and store faults are swallowed: a
// failed write degrades to a miss on the next read.
func defaultSet(codec Codec, log logger.Logger) SetFunc {
	return func(ctx context.Context, store kv.Store, key string, val any, ttl time.Duration) error {
		data, err := codec.Marshal(val)
		if err != nil {
			log.Debug("value for %q is not serializable, skipping store write: %s", key, err)
			return nil
		}
		if err := store.Put(ctx, key, data, ttl.Truncate(time.Second)); err != nil {
			log.Debug("store write failed for %q: %s", key, err)
		}
		return nil
	}
}

// decode converts a value produced by a GetFunc into T: a direct type
// assertion first (a custom strategy may return an already-typed value), then
// a codec unmarshal of raw bytes. Undecodable values report !ok so the caller
// treats the entry as a miss.
func decode[T any](codec Codec, val any) (T, bool) {
	if typed, ok := val.(T); ok {
		return typed, true
	}
	if data, ok := val.([]byte); ok {
		var out T
		if err := codec.Unmarshal(data, &out); err != nil {
			var zero T
			return zero, false
		}
		return out, true
	}
	var zero T
	return zero, false
}
