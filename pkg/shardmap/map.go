package shardmap

// map.go is the public façade: the operations from spec section 4.4,
// dispatched to shards exactly as the teacher's Cache[K,V] dispatched Put
// / GetOrLoad / Len / SizeBytes to its shards (pkg/cache.go), generalized
// from a capacity-bounded eviction cache to an unbounded concurrent
// associative map with no eviction policy at all -- every entry lives
// until explicitly removed, cleared, or filtered out by Retain.
//
// © 2025 shardmap authors. MIT License.

import (
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Voskan/shardmap/internal/rawtable"
)

// Map is a concurrent key -> value store, sharded across a fixed, power-
// of-two number of independently locked partitions (spec sections 2-3).
type Map[K comparable, V any] struct {
	fabric  *shardFabric[K, V]
	hasher  KeyHasher[K]
	metrics metricsSink
	logger  *zap.Logger
	loadSF  singleflight.Group // see loader.go; zero value is ready to use
}

// New constructs a Map with default shard count (4 x next power of two of
// runtime.NumCPU(), minimum 1), a randomly seeded general-purpose hasher,
// and no metrics.
func New[K comparable, V any](opts ...Option[K, V]) (*Map[K, V], error) {
	cfg := defaultConfig[K, V]()
	if err := applyOptions(cfg, opts); err != nil {
		return nil, err
	}

	nshards := cfg.shardCount
	if nshards == 0 {
		nshards = determineShardCount()
	}

	m := &Map[K, V]{
		fabric:  newShardFabric[K, V](nshards, cfg.capacityHint),
		hasher:  cfg.hasherBuild(),
		metrics: newMetricsSink(cfg.registry),
		logger:  cfg.logger,
	}
	if cfg.shardCount != 0 {
		m.logger.Debug("shardmap: explicit shard amount", zap.Int("shards", nshards))
	}
	return m, nil
}

// MustNew is New but panics instead of returning an error; convenient for
// package-level var initialization where the options are compile-time
// constants known to be valid.
func MustNew[K comparable, V any](opts ...Option[K, V]) *Map[K, V] {
	m, err := New[K, V](opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// HashKey exposes the 64-bit digest the map would compute for key, for use
// by the raw API.
func (m *Map[K, V]) HashKey(key K) uint64 { return m.hasher.Hash(key) }

func (m *Map[K, V]) shardFor(key K) (uint64, int, *shard[K, V]) {
	h := m.hasher.Hash(key)
	idx := m.fabric.determineShard(h)
	return h, idx, m.fabric.shardv[idx]
}

// Insert hashes key, takes the write lock of the target shard, and either
// replaces an existing value (returning it) or inserts a fresh one
// (returning false).
func (m *Map[K, V]) Insert(key K, value V) (old V, hadOld bool) {
	h, idx, sh := m.shardFor(key)
	sh.wLock()
	old, hadOld = sh.table.Insert(h, key, value)
	sh.wUnlock()
	m.metrics.incInsert(idx)
	return old, hadOld
}

// Get hashes key, takes the read lock, and returns a Ref borrowing the
// stored key/value, or false if absent. The read lock is held until the
// Ref's Release is called.
func (m *Map[K, V]) Get(key K) (*Ref[K, V], bool) {
	h, idx, sh := m.shardFor(key)
	sh.rLock()
	m.metrics.incGet(idx)
	cell, ok := sh.table.Find(h, key)
	if !ok {
		sh.rUnlock()
		m.metrics.incMiss(idx)
		return nil, false
	}
	m.metrics.incHit(idx)
	return newRef(sh, key, cell), true
}

// GetMut is Get under the shard's write lock, returning a RefMut.
func (m *Map[K, V]) GetMut(key K) (*RefMut[K, V], bool) {
	h, idx, sh := m.shardFor(key)
	sh.wLock()
	m.metrics.incGet(idx)
	cell, ok := sh.table.Find(h, key)
	if !ok {
		sh.wUnlock()
		m.metrics.incMiss(idx)
		return nil, false
	}
	m.metrics.incHit(idx)
	return newRefMut(sh, key, cell), true
}

// Remove takes the write lock and removes the matching entry, returning
// its value and true, or the zero value and false if key was absent.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	h, idx, sh := m.shardFor(key)
	sh.wLock()
	v, ok := sh.table.Remove(h, key)
	sh.wUnlock()
	if ok {
		m.metrics.incRemoval(idx)
	}
	return v, ok
}

// RemoveIf removes the matching entry only if pred(key, value) holds,
// running pred under the write lock. Returns the removed value and true
// when the removal happened.
func (m *Map[K, V]) RemoveIf(key K, pred func(K, V) bool) (V, bool) {
	h, idx, sh := m.shardFor(key)
	sh.wLock()
	defer sh.wUnlock()

	cell, ok := sh.table.Find(h, key)
	if !ok || !pred(key, cell.Value) {
		var zero V
		return zero, false
	}
	v, _ := sh.table.Remove(h, key)
	m.metrics.incRemoval(idx)
	return v, true
}

// ContainsKey reports whether key is present, under the read lock.
func (m *Map[K, V]) ContainsKey(key K) bool {
	h, _, sh := m.shardFor(key)
	sh.rLock()
	_, ok := sh.table.Find(h, key)
	sh.rUnlock()
	return ok
}

// Len returns the sum of shard lengths. It is not a consistent snapshot:
// shards are visited one at a time, each under its own read lock, so a
// concurrent writer can make the sum reflect a mix of instants (spec
// sections 4.4, 9, and the first Open Question in section 9).
func (m *Map[K, V]) Len() int {
	total := 0
	for _, sh := range m.fabric.shards() {
		sh.rLock()
		total += sh.len()
		sh.rUnlock()
	}
	return total
}

// IsEmpty reports Len() == 0.
func (m *Map[K, V]) IsEmpty() bool { return m.Len() == 0 }

// Capacity returns the sum of shard capacities, an implementation-defined
// lower bound (spec section 6's open question on exact partitioning).
func (m *Map[K, V]) Capacity() int {
	total := 0
	for _, sh := range m.fabric.shards() {
		sh.rLock()
		total += sh.cap()
		sh.rUnlock()
	}
	return total
}

// Clear empties every shard, locking them one at a time in ascending index
// order (spec section 5's deadlock discipline for multi-shard operations).
func (m *Map[K, V]) Clear() {
	for _, sh := range m.fabric.shards() {
		sh.wLock()
		sh.table.Clear()
		sh.wUnlock()
	}
}

// Alter runs f against the current value of key and stores the result,
// entirely under the target shard's write lock. It is a no-op if key is
// absent.
func (m *Map[K, V]) Alter(key K, f func(old V) V) {
	h, _, sh := m.shardFor(key)
	sh.wLock()
	defer sh.wUnlock()
	cell, ok := sh.table.Find(h, key)
	if !ok {
		return
	}
	cell.Value = f(cell.Value)
}

// AlterAll runs f against every stored value, locking shards one at a time
// in ascending index order.
func (m *Map[K, V]) AlterAll(f func(key K, old V) V) {
	for _, sh := range m.fabric.shards() {
		sh.wLock()
		sh.table.Iterate(func(k K, cell *rawtable.Cell[V]) bool {
			cell.Value = f(k, cell.Value)
			return true
		})
		sh.wUnlock()
	}
}

// Retain keeps only the entries for which f(key, value) returns true,
// locking shards one at a time in ascending index order. f receives a
// mutable reference to the value so survivors can be updated in place,
// matching AndModify/Alter's pointer contract. f runs under the shard's
// write lock, so it must not call back into the map.
func (m *Map[K, V]) Retain(f func(key K, value *V) bool) {
	for idx, sh := range m.fabric.shards() {
		sh.wLock()
		var drop []K
		sh.table.Iterate(func(k K, cell *rawtable.Cell[V]) bool {
			if !f(k, &cell.Value) {
				drop = append(drop, k)
			}
			return true
		})
		for _, k := range drop {
			if _, ok := sh.table.Remove(0, k); ok {
				m.metrics.incRemoval(idx)
			}
		}
		sh.wUnlock()
	}
}

// Entry obtains the entry for key, taking the write lock on its shard
// exactly once (spec section 4.6). The caller must consume the returned
// Entry via one of its terminal methods -- see entry.go's package doc.
func (m *Map[K, V]) Entry(key K) *Entry[K, V] {
	h, _, sh := m.shardFor(key)
	sh.wLock()
	cell, ok := sh.table.Find(h, key)
	if !ok {
		cell = nil
	}
	return newEntry(sh, h, key, cell)
}
