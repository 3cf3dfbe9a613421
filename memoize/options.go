package memoize

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/agentuity/go-common/logger"

	"github.com/agentuity/go-memoize/kv"
)

// MinTTL is the smallest TTL a wrapped function may be configured with.
const MinTTL = time.Minute

// DefaultBinding is the binding name used when none is configured.
const DefaultBinding = "KV"

var (
	// ErrTTLRequired is returned by Wrap when no TTL is configured. TTL is
	// the one option with no usable default.
	ErrTTLRequired = errors.New("memoize: ttl is required")

	// ErrTTLTooShort is returned by Wrap when the configured TTL is below
	// MinTTL.
	ErrTTLTooShort = errors.New("memoize: ttl must be at least one minute")

	// ErrInvalidKey is returned by Wrap when the Key option is neither a
	// non-empty string nor a KeyFunc.
	ErrInvalidKey = errors.New("memoize: key must be a non-empty string or a KeyFunc")
)

// KeyFunc derives a cache key from the call arguments. Returning ErrBypass
// skips caching for that call; any other error propagates to the caller.
type KeyFunc func(ctx context.Context, args ...any) (string, error)

// GetFunc is a pluggable read strategy. It returns the value found at key
// (either already typed or as raw bytes for the codec to decode) and whether
// anything was found. The default strategy never returns an error; a custom
// strategy's error propagates to the caller of Get, and is ignored on the
// Call path where a failed read is just a miss.
type GetFunc func(ctx context.Context, store kv.Store, key string) (any, bool, error)

// SetFunc is a pluggable write strategy. The default strategy serializes val
// with the configured codec and swallows store faults; a custom strategy's
// error propagates from Set but is never observed on the Call path.
type SetFunc func(ctx context.Context, store kv.Store, key string, val any, ttl time.Duration) error

// Options configures a wrapped function. Factory defaults and per-wrap
// Options are merged field-wise, per-wrap values taking precedence.
type Options struct {
	// Binding is the name the store is resolved under. Defaults to
	// DefaultBinding.
	Binding string

	// Prefix is prepended to every derived key. Declared as any to carry the
	// permissive prefix policy: any non-string value normalizes to "".
	Prefix any

	// Key is either a static key string or a KeyFunc for per-argument keys.
	// Defaults to the wrapped function's identifier.
	Key any

	// TTL is the time-to-live passed to the store on writes. Required;
	// must be at least MinTTL.
	TTL time.Duration

	// Get overrides the default read strategy.
	Get GetFunc

	// Set overrides the default write strategy.
	Set SetFunc

	// Codec overrides the default JSON codec used to serialize values.
	Codec Codec

	// Logger receives debug logs for swallowed store faults. Silent when
	// unset.
	Logger logger.Logger
}

// merge overlays o on top of defaults, field-wise. Set fields in o win.
func (o Options) merge(defaults Options) Options {
	merged := defaults
	if o.Binding != "" {
		merged.Binding = o.Binding
	}
	if o.Prefix != nil {
		merged.Prefix = o.Prefix
	}
	if o.Key != nil {
		merged.Key = o.Key
	}
	if o.TTL != 0 {
		merged.TTL = o.TTL
	}
	if o.Get != nil {
		merged.Get = o.Get
	}
	if o.Set != nil {
		merged.Set = o.Set
	}
	if o.Codec != nil {
		merged.Codec = o.Codec
	}
	if o.Logger != nil {
		merged.Logger = o.Logger
	}
	return merged
}

// config is the validated, immutable form of the merged Options. Exactly one
// of staticKey and keyFn is set.
type config struct {
	binding   string
	prefix    string
	staticKey string
	keyFn     KeyFunc
	ttl       time.Duration
	get       GetFunc
	set       SetFunc
	codec     Codec
	log       logger.Logger
}

// newConfig validates the merged options against fn. All violations surface
// here, at wrap time, before any call is made.
func newConfig(fn any, o Options) (config, error) {
	cfg := config{
		binding: o.Binding,
		prefix:  normalizePrefix(o.Prefix),
		ttl:     o.TTL,
		get:     o.Get,
		set:     o.Set,
		codec:   o.Codec,
		log:     o.Logger,
	}
	if cfg.binding == "" {
		cfg.binding = DefaultBinding
	}
	if cfg.codec == nil {
		cfg.codec = JSON
	}
	if cfg.log == nil {
		cfg.log = logger.NewConsoleLogger(logger.LevelNone)
	}

	switch key := o.Key.(type) {
	case nil:
		cfg.staticKey = funcName(fn)
		if cfg.staticKey == "" {
			return config{}, fmt.Errorf("%w: function has no identifiable name, set Key explicitly", ErrInvalidKey)
		}
	case string:
		if key == "" {
			return config{}, fmt.Errorf("%w: got an empty string", ErrInvalidKey)
		}
		cfg.staticKey = key
	case KeyFunc:
		cfg.keyFn = key
	case func(ctx context.Context, args ...any) (string, error):
		cfg.keyFn = key
	default:
		return config{}, fmt.Errorf("%w: got %T", ErrInvalidKey, o.Key)
	}

	if cfg.ttl == 0 {
		return config{}, ErrTTLRequired
	}
	if cfg.ttl < MinTTL {
		return config{}, fmt.Errorf("%w: got %s", ErrTTLTooShort, cfg.ttl)
	}

	if cfg.get == nil {
		cfg.get = defaultGet(cfg.log)
	}
	if cfg.set == nil {
		cfg.set = defaultSet(cfg.codec, cfg.log)
	}
	return cfg, nil
}

// normalizePrefix implements the permissive prefix policy: a string is used
// as-is and anything else (including nil) normalizes to the empty string.
func normalizePrefix(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// funcName returns the bare identifier of fn as declared, e.g. "FetchUser"
// for a named function or "func1" for an anonymous one.
func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	name := f.Name()
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	// Method values carry a -fm suffix.
	return strings.TrimSuffix(name, "-fm")
}
