package kv

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by Redis. Expiry uses native Redis TTL. An optional
// key prefix (WithPrefix) namespaces multiple stores on the same instance.
// The caller owns the redis.Client lifecycle.
type Redis struct {
	client *redis.Client
	cfg    config
}

var _ Store = (*Redis)(nil)

// NewRedis returns a new Store backed by Redis.
func NewRedis(client *redis.Client, opts ...Option) *Redis {
	return &Redis{
		client: client,
		cfg:    applyOptions(opts),
	}
}

func (s *Redis) queryCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, s.cfg.queryTimeout)
}

func (s *Redis) prefixKey(key string) string {
	if s.cfg.prefix == "" {
		return key
	}
	return s.cfg.prefix + ":" + key
}

func (s *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	qctx, cancel := s.queryCtx(ctx)
	defer cancel()
	data, err := s.client.Get(qctx, s.prefixKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *Redis) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	qctx, cancel := s.queryCtx(ctx)
	defer cancel()
	return s.client.Set(qctx, s.prefixKey(key), value, ttl).Err()
}

func (s *Redis) Delete(ctx context.Context, key string) error {
	qctx, cancel := s.queryCtx(ctx)
	defer cancel()
	return s.client.Del(qctx, s.prefixKey(key)).Err()
}
