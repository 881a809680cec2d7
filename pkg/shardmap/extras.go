package shardmap

// extras.go supplements the operations spec.md's distillation omitted but
// the pack's other sharded-map ports all carry in some form: bulk
// get/set, an upsert that sees the previous value, a snapshot, and a
// per-shard load-distribution report used by the inspect command. Upsert,
// SetIfAbsent, MSet and MGet are built out of map.go's public operations;
// Keys, Values, Clone and ShardDistribution walk the shards directly.
//
// © 2025 shardmap authors. MIT License.

import "github.com/Voskan/shardmap/internal/rawtable"

// Upsert installs newVal if key is absent, or replaces the existing value
// with combine(old, newVal) if present -- unlike Alter, the caller
// supplies the incoming value up front rather than deriving it from the
// old one, matching the "update or insert" naming the pack's other
// sharded maps use.
func (m *Map[K, V]) Upsert(key K, newVal V, combine func(old, new V) V) {
	e := m.Entry(key)
	if e.IsOccupied() {
		o := e.Occupied()
		o.ReplaceValue(combine(*o.Get(), newVal))
		o.GetMut().Release()
		return
	}
	e.Vacant().Insert(newVal).Release()
}

// SetIfAbsent inserts value only if key is not already present, returning
// true if the insert happened.
func (m *Map[K, V]) SetIfAbsent(key K, value V) bool {
	e := m.Entry(key)
	if e.IsOccupied() {
		e.Release()
		return false
	}
	e.Vacant().Insert(value).Release()
	return true
}

// MSet inserts every key/value pair in kvs, shard by shard in whatever
// order the caller's map iterates, each individual pair under its own
// shard's write lock -- not one atomic operation across the whole batch
// (spec section 5 rules out acquiring more than one shard's lock at a
// time from map-level calls).
func (m *Map[K, V]) MSet(kvs map[K]V) {
	for k, v := range kvs {
		m.Insert(k, v)
	}
}

// MGet looks up every key in keys, returning a map containing only the
// ones that were present.
func (m *Map[K, V]) MGet(keys []K) map[K]V {
	out := make(map[K]V, len(keys))
	for _, k := range keys {
		if ref, ok := m.Get(k); ok {
			out[k] = *ref.Value()
			ref.Release()
		}
	}
	return out
}

// Keys returns a snapshot of every key currently stored, visiting shards
// one at a time under their own read locks -- subject to the same weak
// consistency as Len and Iter.
func (m *Map[K, V]) Keys() []K {
	out := make([]K, 0, m.Len())
	for _, sh := range m.fabric.shards() {
		sh.rLock()
		sh.table.Iterate(func(k K, _ *rawtable.Cell[V]) bool {
			out = append(out, k)
			return true
		})
		sh.rUnlock()
	}
	return out
}

// Values returns a snapshot of every stored value, under the same
// consistency contract as Keys.
func (m *Map[K, V]) Values() []V {
	out := make([]V, 0, m.Len())
	for _, sh := range m.fabric.shards() {
		sh.rLock()
		sh.table.Iterate(func(_ K, cell *rawtable.Cell[V]) bool {
			out = append(out, cell.Value)
			return true
		})
		sh.rUnlock()
	}
	return out
}

// Clone copies every entry into a freshly constructed Map with the same
// shard count and hasher, but no metrics registry (metrics are tied to
// the instance they were registered against, not to the data). Clone
// takes each source shard's read lock in turn; it is not a single atomic
// snapshot of the whole map.
func (m *Map[K, V]) Clone() (*Map[K, V], error) {
	clone, err := New[K, V](
		WithShardAmount[K, V](len(m.fabric.shardv)),
		WithHasher[K, V](func() KeyHasher[K] { return m.hasher }),
	)
	if err != nil {
		return nil, err
	}
	for _, sh := range m.fabric.shards() {
		sh.rLock()
		sh.table.Iterate(func(k K, cell *rawtable.Cell[V]) bool {
			clone.Insert(k, cell.Value)
			return true
		})
		sh.rUnlock()
	}
	return clone, nil
}

// ShardStat reports one shard's load, for ShardDistribution.
type ShardStat struct {
	Index   int
	Entries int
}

// ShardDistribution reports the live entry count of every shard, in
// shard-array order -- the figure the inspect command prints to reveal
// hash skew.
func (m *Map[K, V]) ShardDistribution() []ShardStat {
	stats := make([]ShardStat, len(m.fabric.shardv))
	for i, sh := range m.fabric.shardv {
		sh.rLock()
		stats[i] = ShardStat{Index: i, Entries: sh.len()}
		sh.rUnlock()
	}
	return stats
}
