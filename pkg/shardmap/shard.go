package shardmap

// shard.go holds one lock-protected slice of the key space: a raw table
// plus the reader-writer lock that serializes access to it. This is the
// direct generalization of the teacher's shard[K,V] (pkg/cache.go): same
// one-mutex-per-shard shape, same own-length bookkeeping, but wrapping
// internal/rawtable instead of a bare map[uint64]*entry and internal/rwlock
// instead of sync.RWMutex so that Entry.or_insert (section 4.6) can hand a
// write lock to a RefMut without an unlock/relock window.
//
// © 2025 shardmap authors. MIT License.

import (
	"github.com/Voskan/shardmap/internal/rawtable"
	"github.com/Voskan/shardmap/internal/rwlock"
)

// shard owns one partition of the key space. It is never exposed directly
// outside this package except through the raw API (rawshard.go).
type shard[K comparable, V any] struct {
	mu    *rwlock.RWMutex
	table *rawtable.Table[K, V]
}

func newShard[K comparable, V any](capacityHint int) *shard[K, V] {
	return &shard[K, V]{mu: rwlock.New(), table: rawtable.New[K, V](capacityHint)}
}

func (s *shard[K, V]) rLock()    { s.mu.RLock() }
func (s *shard[K, V]) rUnlock()  { s.mu.RUnlock() }
func (s *shard[K, V]) wLock()    { s.mu.Lock() }
func (s *shard[K, V]) wUnlock()  { s.mu.Unlock() }
func (s *shard[K, V]) tryRLock() bool { return s.mu.TryRLock() }
func (s *shard[K, V]) tryWLock() bool { return s.mu.TryLock() }
func (s *shard[K, V]) downgrade()     { s.mu.Downgrade() }

// len reports the shard's current entry count. It takes no lock itself:
// Map.Len and Map.ShardDistribution call it under the shard's read lock,
// RawShard.Len calls it without one.
func (s *shard[K, V]) len() int { return s.table.Len() }

func (s *shard[K, V]) cap() int { return s.table.Cap() }
