package shardmap

// rawshard.go is the optional raw API from spec section 6: direct access
// to a shard's lock and table for callers willing to maintain the
// invariants (same-hash-same-shard, no duplicates, length accounting)
// themselves. It exists for the same reason the teacher exposed
// pkg/cache.go's shard internals to bench/bench_test.go: tight loops that
// already know which shard they want can skip the per-call hash-then-
// index indirection.
//
// © 2025 shardmap authors. MIT License.

import "github.com/Voskan/shardmap/internal/rawtable"

// RawShard is a caller-facing handle to one partition of the map. Methods
// named try* report false on contention instead of blocking (spec
// section 7's "try_read/try_write return an absence value on
// contention").
type RawShard[K comparable, V any] struct {
	sh *shard[K, V]
}

// Shards returns every shard in the map, in the fixed array order used
// internally by determine_shard. The slice itself is never resized after
// construction.
func (m *Map[K, V]) Shards() []RawShard[K, V] {
	raw := make([]RawShard[K, V], len(m.fabric.shardv))
	for i, sh := range m.fabric.shardv {
		raw[i] = RawShard[K, V]{sh: sh}
	}
	return raw
}

// DetermineShard returns the index into Shards() that a key hashing to
// hash lives in.
func (m *Map[K, V]) DetermineShard(hash uint64) int {
	return m.fabric.determineShard(hash)
}

// Read takes the shard's read lock and calls fn with direct access to its
// backing table. The lock is released when Read returns.
func (s RawShard[K, V]) Read(fn func(*rawtable.Table[K, V])) {
	s.sh.rLock()
	defer s.sh.rUnlock()
	fn(s.sh.table)
}

// Write is Read under the write lock.
func (s RawShard[K, V]) Write(fn func(*rawtable.Table[K, V])) {
	s.sh.wLock()
	defer s.sh.wUnlock()
	fn(s.sh.table)
}

// TryRead attempts the read lock without blocking, running fn and
// returning true on success, or returning false immediately on
// contention.
func (s RawShard[K, V]) TryRead(fn func(*rawtable.Table[K, V])) bool {
	if !s.sh.tryRLock() {
		return false
	}
	defer s.sh.rUnlock()
	fn(s.sh.table)
	return true
}

// TryWrite is TryRead under the write lock.
func (s RawShard[K, V]) TryWrite(fn func(*rawtable.Table[K, V])) bool {
	if !s.sh.tryWLock() {
		return false
	}
	defer s.sh.wUnlock()
	fn(s.sh.table)
	return true
}

// Len reports the shard's entry count without acquiring a lock of its
// own; callers that need a consistent read should call it from inside
// Read or Write.
func (s RawShard[K, V]) Len() int { return s.sh.len() }
