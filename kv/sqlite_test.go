package kv

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSQLitePutGetDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite(ctx, ":memory:")
	assert.NoError(t, err)
	defer s.Close()

	// Miss on empty store.
	val, found, err := s.Get(ctx, "key")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, val)

	assert.NoError(t, s.Put(ctx, "key", []byte("value"), time.Minute))

	val, found, err = s.Get(ctx, "key")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("value"), val)

	assert.NoError(t, s.Delete(ctx, "key"))
	_, found, err = s.Get(ctx, "key")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteOverwrite(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite(ctx, "")
	assert.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.Put(ctx, "key", []byte("one"), time.Minute))
	assert.NoError(t, s.Put(ctx, "key", []byte("two"), time.Minute))

	val, found, err := s.Get(ctx, "key")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("two"), val)
}

func TestSQLiteLazyExpiry(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite(ctx, ":memory:")
	assert.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.Put(ctx, "short", []byte("v"), 20*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, found, err := s.Get(ctx, "short")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteBackgroundCleanup(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite(ctx, ":memory:", WithExpiryCheck(10*time.Millisecond))
	assert.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.Put(ctx, "short", []byte("v"), 10*time.Millisecond))
	time.Sleep(50 * time.Millisecond)

	var count int
	assert.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM store`).Scan(&count))
	assert.Equal(t, 0, count, "cleanup should have removed the expired row")
}

func TestSQLiteFileBacked(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.db")

	s, err := NewSQLite(ctx, path)
	assert.NoError(t, err)
	assert.NoError(t, s.Put(ctx, "key", []byte("value"), time.Minute))
	assert.NoError(t, s.Close())

	// Entries survive reopening the same file.
	s2, err := NewSQLite(ctx, path)
	assert.NoError(t, err)
	defer s2.Close()

	val, found, err := s2.Get(ctx, "key")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("value"), val)
}

func TestSQLiteCloseIdempotent(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite(ctx, ":memory:")
	assert.NoError(t, err)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
