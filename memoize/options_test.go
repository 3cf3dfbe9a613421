package memoize

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/agentuity/go-common/logger"
	"github.com/stretchr/testify/assert"
)

func TestWrapRequiresTTL(t *testing.T) {
	f := newTestFactory(newFakeStore(), Options{})

	_, err := Wrap(f, double, Options{Key: "k"})
	assert.ErrorIs(t, err, ErrTTLRequired)
}

func TestWrapRejectsShortTTL(t *testing.T) {
	f := newTestFactory(newFakeStore(), Options{})

	// One second under the floor is rejected.
	_, err := Wrap(f, double, Options{Key: "k", TTL: 59 * time.Second})
	assert.ErrorIs(t, err, ErrTTLTooShort)

	// Exactly the floor is accepted.
	w, err := Wrap(f, double, Options{Key: "k", TTL: 60 * time.Second})
	assert.NoError(t, err)
	assert.NotNil(t, w)

	_, err = Wrap(f, double, Options{Key: "k", TTL: -time.Minute})
	assert.ErrorIs(t, err, ErrTTLTooShort)
}

func TestWrapRejectsBadKey(t *testing.T) {
	f := newTestFactory(newFakeStore(), Options{TTL: time.Minute})

	_, err := Wrap(f, double, Options{Key: 42})
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = Wrap(f, double, Options{Key: ""})
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestWrapRequiresFunction(t *testing.T) {
	f := newTestFactory(newFakeStore(), Options{TTL: time.Minute})

	_, err := Wrap[int](f, nil, Options{Key: "k"})
	assert.Error(t, err)
}

func TestWrapAcceptsPlainKeyFunction(t *testing.T) {
	f := newTestFactory(newFakeStore(), Options{TTL: time.Minute})

	// An untyped func literal with the KeyFunc shape works without the
	// explicit conversion.
	w, err := Wrap(f, double, Options{
		Key: func(ctx context.Context, args ...any) (string, error) {
			return "k", nil
		},
	})
	assert.NoError(t, err)
	assert.NotNil(t, w)
}

func TestNewPanicsWithoutResolver(t *testing.T) {
	assert.Panics(t, func() { New(nil, Options{}) })
}

func TestOptionsMergePrecedence(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	f := newTestFactory(store, Options{TTL: time.Minute, Prefix: "default:"})

	// Per-wrap prefix wins over the factory default.
	w, err := Wrap(f, double, Options{Key: "k", Prefix: "override:"})
	assert.NoError(t, err)
	assert.NoError(t, w.Set(ctx, 1))
	assert.Contains(t, store.entries, "override:k")

	// Unset per-wrap fields inherit the default.
	w2, err := Wrap(f, double, Options{Key: "k2"})
	assert.NoError(t, err)
	assert.NoError(t, w2.Set(ctx, 1))
	assert.Contains(t, store.entries, "default:k2")
}

func TestNonStringPrefixNormalizes(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	f := newTestFactory(store, Options{TTL: time.Minute})

	w, err := Wrap(f, double, Options{Key: "k", Prefix: 42})
	assert.NoError(t, err)
	assert.NoError(t, w.Set(ctx, 1))
	assert.Contains(t, store.entries, "k")
}

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, "p:", normalizePrefix("p:"))
	assert.Equal(t, "", normalizePrefix(nil))
	assert.Equal(t, "", normalizePrefix(42))
	assert.Equal(t, "", normalizePrefix([]byte("p:")))
}

func TestFuncName(t *testing.T) {
	assert.Equal(t, "double", funcName(double))
	assert.Equal(t, "", funcName("not a function"))
	// Anonymous functions still get a usable identifier.
	assert.NotEmpty(t, funcName(func() {}))
}

func TestDefaultBinding(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	f := newTestFactory(store, Options{TTL: time.Minute})

	// No binding configured anywhere resolves under DefaultBinding.
	w, err := Wrap(f, double, Options{Key: "k"})
	assert.NoError(t, err)
	_, err = w.Call(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, store.puts)
}

func TestSwallowedFaultsAreLogged(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.putErr = fmt.Errorf("disk full")
	log := logger.NewTestLogger()
	f := newTestFactory(store, Options{TTL: time.Minute, Logger: log})

	w, err := Wrap(f, double, Options{Key: "k"})
	assert.NoError(t, err)
	assert.NoError(t, w.Set(ctx, 1))

	assert.NotEmpty(t, log.Logs)
	assert.Contains(t, log.Logs[0].Message, "store write failed")
}

func TestUnserializableValueSkipsWrite(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	f := newTestFactory(store, Options{TTL: time.Minute})

	// JSON cannot marshal a channel; the write is skipped, not an error.
	w, err := Wrap(f, func(ctx context.Context, args ...any) (chan int, error) {
		return make(chan int), nil
	}, Options{Key: "k"})
	assert.NoError(t, err)

	assert.NoError(t, w.Set(ctx, make(chan int)))
	assert.NotContains(t, store.entries, "k")
}
