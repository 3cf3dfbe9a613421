package kv

import (
	"context"
	"encoding/binary"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bolt is a Store backed by a bbolt database file. Each value is stored with
// an 8-byte big-endian expiry timestamp prefix; expired entries are treated
// as absent on Get and removed lazily. Suitable for single-process
// deployments that need persistence without external infrastructure.
type Bolt struct {
	db     *bolt.DB
	bucket []byte
}

var _ Store = (*Bolt)(nil)

// NewBolt opens (or creates) a bbolt database at path and returns a Store
// using the named bucket. If bucket is empty, "store" is used.
func NewBolt(path string, bucket string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	name := []byte("store")
	if bucket != "" {
		name = []byte(bucket)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Bolt{db: db, bucket: name}, nil
}

func (s *Bolt) Get(_ context.Context, key string) ([]byte, bool, error) {
	var out []byte
	var found bool
	var expired bool
	if err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get([]byte(key))
		if v == nil || len(v) < 8 {
			return nil
		}
		expiresAt := int64(binary.BigEndian.Uint64(v[:8]))
		if time.Now().UnixNano() > expiresAt {
			expired = true
			return nil
		}
		out = append([]byte(nil), v[8:]...)
		found = true
		return nil
	}); err != nil {
		return nil, false, err
	}
	if expired {
		// Lazily delete the expired entry (best-effort).
		_ = s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(s.bucket).Delete([]byte(key))
		})
	}
	return out, found, nil
}

func (s *Bolt) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	// Layout: 8 bytes big-endian expiry (UnixNano) followed by the raw value.
	buf := make([]byte, 8+len(value))
	binary.BigEndian.PutUint64(buf[:8], uint64(time.Now().Add(ttl).UnixNano()))
	copy(buf[8:], value)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), buf)
	})
}

func (s *Bolt) Delete(_ context.Context, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(key))
	})
}

// Close closes the underlying database.
func (s *Bolt) Close() error {
	return s.db.Close()
}
