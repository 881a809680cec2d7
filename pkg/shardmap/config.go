package shardmap

// config.go defines the internal configuration object and the functional
// options New[K,V] accepts. This is the teacher's pkg/config.go pattern
// (config struct + Option[K,V] functions + defaultConfig + applyOptions)
// generalized from cache knobs (capacity bytes, TTL, weight function,
// eviction callback) to map knobs (capacity hint, shard count, hasher).
//
// © 2025 shardmap authors. MIT License.

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Voskan/shardmap/internal/unsafehelpers"
)

// Option configures a Map at construction time.
type Option[K comparable, V any] func(*config[K, V])

type config[K comparable, V any] struct {
	capacityHint int
	shardCount   int // 0 means "use the default from fabric.go"
	hasherBuild  HasherBuilder[K]
	registry     *prometheus.Registry
	logger       *zap.Logger
}

func defaultConfig[K comparable, V any]() *config[K, V] {
	return &config[K, V]{
		hasherBuild: DefaultHasher[K](),
		logger:      zap.NewNop(),
	}
}

// WithCapacity pre-sizes the map's shards so the first capacityHint
// insertions do not trigger table growth. Distributed across shards,
// rounded up per shard (spec section 6).
func WithCapacity[K comparable, V any](capacityHint int) Option[K, V] {
	return func(c *config[K, V]) {
		if capacityHint > 0 {
			c.capacityHint = capacityHint
		}
	}
}

// WithShardAmount overrides the default shard count. n must be a power of
// two; New returns ErrInvalidShardAmount otherwise.
func WithShardAmount[K comparable, V any](n int) Option[K, V] {
	return func(c *config[K, V]) {
		if n <= 0 {
			n = -1 // rejected by applyOptions; 0 must not mean "default" here
		}
		c.shardCount = n
	}
}

// WithHasher installs a user-supplied HasherBuilder, e.g. for deterministic
// or DoS-resistant hashing.
func WithHasher[K comparable, V any](hb HasherBuilder[K]) Option[K, V] {
	return func(c *config[K, V]) {
		if hb != nil {
			c.hasherBuild = hb
		}
	}
}

// WithMetrics enables Prometheus metrics collection for the map instance.
// Passing nil disables metrics (the default).
func WithMetrics[K comparable, V any](reg *prometheus.Registry) Option[K, V] {
	return func(c *config[K, V]) {
		c.registry = reg
	}
}

// WithLogger plugs an external zap.Logger. The map never logs on a hot
// path (Insert/Get/Remove/entry operations); the only event it emits is a
// Debug line at construction when an explicit shard amount was given.
func WithLogger[K comparable, V any](l *zap.Logger) Option[K, V] {
	return func(c *config[K, V]) {
		if l != nil {
			c.logger = l
		}
	}
}

func applyOptions[K comparable, V any](cfg *config[K, V], opts []Option[K, V]) error {
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.shardCount < 0 || (cfg.shardCount != 0 && !unsafehelpers.IsPowerOfTwo(uintptr(cfg.shardCount))) {
		return ErrInvalidShardAmount
	}
	if cfg.capacityHint < 0 {
		return ErrInvalidCapacity
	}
	return nil
}

var (
	// ErrInvalidShardAmount is returned when WithShardAmount is given a
	// value that is not a power of two, or <= 0.
	ErrInvalidShardAmount = errors.New("shardmap: shard amount must be a power of two and > 0")
	// ErrInvalidCapacity is returned when the configured capacity hint is
	// negative. WithCapacity ignores non-positive hints, so no option in
	// this package produces it.
	ErrInvalidCapacity = errors.New("shardmap: capacity hint must be >= 0")
)
