// Package rawtable implements the non-concurrent hash table primitive that a
// shard wraps with a lock. It has no synchronization of its own; every
// exported method assumes the caller already holds whatever lock protects
// the table, exactly as shard.index did in the teacher cache (a plain Go map
// guarded by the shard's mutex, never locked internally).
//
// A Table stores one Cell per key. The Cell is the "shared_value_cell": it
// holds the value behind a stable pointer so that a read-locked Ref and
// in-place mutation under a write lock both address the same memory without
// a second map lookup.
package rawtable

// Cell is the value slot behind a stored key. Its address is stable for as
// long as the key remains in the table; Remove and a later Insert of the
// same key allocate a fresh Cell.
type Cell[V any] struct {
	Hash  uint64
	Value V
}

// Table is a hash table keyed by K, storing a *Cell[V] per key so that
// pointers into it survive map growth (Go's builtin map relocates entries on
// grow; indirecting through a pointer keeps previously returned *Cell[V]
// valid as long as the entry itself is not removed).
type Table[K comparable, V any] struct {
	m map[K]*Cell[V]
}

// New constructs an empty table, reserving room for capacityHint entries.
func New[K comparable, V any](capacityHint int) *Table[K, V] {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &Table[K, V]{m: make(map[K]*Cell[V], capacityHint)}
}

// Insert installs value under key with the given precomputed hash,
// returning the previous value and true if key was already present.
func (t *Table[K, V]) Insert(hash uint64, key K, value V) (old V, hadOld bool) {
	if c, ok := t.m[key]; ok {
		old = c.Value
		c.Value = value
		c.Hash = hash
		return old, true
	}
	t.m[key] = &Cell[V]{Hash: hash, Value: value}
	return old, false
}

// Find returns the cell stored for key, or nil if absent. hash is accepted
// for interface symmetry with a bucket-addressed implementation; this
// table's backing store is Go's native map and looks up by key equality
// directly.
func (t *Table[K, V]) Find(hash uint64, key K) (*Cell[V], bool) {
	c, ok := t.m[key]
	return c, ok
}

// Remove deletes key, returning its value and true if it was present.
func (t *Table[K, V]) Remove(hash uint64, key K) (V, bool) {
	c, ok := t.m[key]
	if !ok {
		var zero V
		return zero, false
	}
	delete(t.m, key)
	return c.Value, true
}

// Len returns the number of stored entries.
func (t *Table[K, V]) Len() int { return len(t.m) }

// Cap returns the table's current bucket capacity hint. Go's map does not
// expose this, so Cap reports the live length as a lower bound -- adequate
// for Map.Capacity(), which is itself documented as a non-authoritative
// sum.
func (t *Table[K, V]) Cap() int { return len(t.m) }

// Reserve hints that the table should be able to hold at least n entries
// without further reallocation. Go's map has no explicit reserve API prior
// to building a fresh map, so Reserve rebuilds the backing map via a
// maps.Clone-equivalent copy whenever n exceeds the current entry count;
// otherwise it is a no-op.
func (t *Table[K, V]) Reserve(n int) {
	if n <= len(t.m) {
		return
	}
	grown := make(map[K]*Cell[V], n)
	for k, v := range t.m {
		grown[k] = v
	}
	t.m = grown
}

// Iterate calls fn for every stored (key, cell) pair until fn returns false
// or the table is exhausted. Iteration order is Go's native map order:
// unspecified and not stable across mutations, matching spec section 4.7.
func (t *Table[K, V]) Iterate(fn func(key K, cell *Cell[V]) bool) {
	for k, c := range t.m {
		if !fn(k, c) {
			return
		}
	}
}

// Clear empties the table in place.
func (t *Table[K, V]) Clear() {
	clear(t.m)
}
