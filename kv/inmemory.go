package kv

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value   []byte
	expires time.Time
}

// InMemory is a Store backed by an in-process map. Expired entries are
// removed lazily on Get and by a background sweeper at the configured
// expiry-check interval.
type InMemory struct {
	ctx       context.Context
	cancel    context.CancelFunc
	entries   map[string]entry
	mutex     sync.Mutex
	waitGroup sync.WaitGroup
	once      sync.Once
}

var _ Store = (*InMemory)(nil)

// NewInMemory returns a new in-memory Store implementation.
func NewInMemory(parent context.Context, opts ...Option) *InMemory {
	cfg := applyOptions(opts)
	ctx, cancel := context.WithCancel(parent)
	s := &InMemory{
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[string]entry),
	}
	s.waitGroup.Add(1)
	go s.run(cfg.expiryCheck)
	return s
}

func (s *InMemory) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if e.expires.Before(time.Now()) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *InMemory) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mutex.Lock()
	s.entries[key] = entry{value: value, expires: time.Now().Add(ttl)}
	s.mutex.Unlock()
	return nil
}

func (s *InMemory) Delete(_ context.Context, key string) error {
	s.mutex.Lock()
	delete(s.entries, key)
	s.mutex.Unlock()
	return nil
}

// Close stops the background sweeper. The store remains usable afterwards but
// expired entries are only removed lazily.
func (s *InMemory) Close() error {
	s.once.Do(func() {
		s.cancel()
		s.waitGroup.Wait()
	})
	return nil
}

func (s *InMemory) run(interval time.Duration) {
	defer s.waitGroup.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			s.mutex.Lock()
			for key, e := range s.entries {
				if e.expires.Before(now) {
					delete(s.entries, key)
				}
			}
			s.mutex.Unlock()
		}
	}
}
