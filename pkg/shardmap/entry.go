package shardmap

// entry.go implements the occupied/vacant entry API from spec section 4.6.
// The write lock on the key's shard is taken exactly once, by Map.Entry,
// before classification into Occupied or Vacant; every terminal method on
// Entry/OccupiedEntry/VacantEntry either hands that same lock to a returned
// RefMut (so there is never a window where nobody holds it) or releases it
// directly. Go has no destructors, so -- unlike the Rust original -- an
// Entry that is created and then dropped without calling a terminal method
// leaks the shard's write lock; callers must always finish with one of
// OrInsert/OrInsertWith/OrDefault/OrTryInsertWith/Insert/InsertEntry,
// Occupied().Remove()/RemoveEntry(), or Release().
//
// © 2025 shardmap authors. MIT License.

import "github.com/Voskan/shardmap/internal/rawtable"

// Entry represents a key's slot in the map: either Occupied or Vacant. It
// holds the shard's write lock and a cached hash for the key for as long as
// it is alive.
type Entry[K comparable, V any] struct {
	sh       *shard[K, V]
	hash     uint64
	key      K
	cell     *rawtable.Cell[V]
	consumed bool
}

func newEntry[K comparable, V any](sh *shard[K, V], hash uint64, key K, cell *rawtable.Cell[V]) *Entry[K, V] {
	return &Entry[K, V]{sh: sh, hash: hash, key: key, cell: cell}
}

func (e *Entry[K, V]) consume() {
	if e.consumed {
		panic("shardmap: Entry used after its write lock was already handed off")
	}
	e.consumed = true
}

// IsOccupied reports whether the key already had a value when this Entry
// was obtained.
func (e *Entry[K, V]) IsOccupied() bool { return e.cell != nil }

// IsVacant reports the opposite of IsOccupied.
func (e *Entry[K, V]) IsVacant() bool { return e.cell == nil }

// Release abandons the entry without mutating the map, unlocking the
// shard. Use this when neither the Occupied nor Vacant path needs to write
// anything.
func (e *Entry[K, V]) Release() {
	e.consume()
	e.sh.wUnlock()
}

// AndModify runs f against the occupied value in place and returns the
// same entry so or_insert-style calls can still chain after it; on a
// vacant entry it is a no-op.
func (e *Entry[K, V]) AndModify(f func(v *V)) *Entry[K, V] {
	if e.cell != nil {
		f(&e.cell.Value)
	}
	return e
}

func (e *Entry[K, V]) installCell(v V) *rawtable.Cell[V] {
	e.sh.table.Insert(e.hash, e.key, v)
	cell, _ := e.sh.table.Find(e.hash, e.key)
	e.cell = cell
	return cell
}

// OrInsert returns a RefMut to the existing value, or installs v and
// returns a RefMut to it.
func (e *Entry[K, V]) OrInsert(v V) *RefMut[K, V] {
	if e.cell == nil {
		e.installCell(v)
	}
	e.consume()
	return newRefMut(e.sh, e.key, e.cell)
}

// OrInsertWith is OrInsert but computes the value lazily, only on a vacant
// entry.
func (e *Entry[K, V]) OrInsertWith(f func() V) *RefMut[K, V] {
	if e.cell == nil {
		e.installCell(f())
	}
	e.consume()
	return newRefMut(e.sh, e.key, e.cell)
}

// OrDefault is OrInsert with the zero value of V.
func (e *Entry[K, V]) OrDefault() *RefMut[K, V] {
	if e.cell == nil {
		var zero V
		e.installCell(zero)
	}
	e.consume()
	return newRefMut(e.sh, e.key, e.cell)
}

// OrTryInsertWith is OrInsertWith but f may fail; on error the slot is left
// exactly as vacant as it was found, the shard's write lock is released,
// and the error is returned verbatim.
func (e *Entry[K, V]) OrTryInsertWith(f func() (V, error)) (*RefMut[K, V], error) {
	if e.cell == nil {
		v, err := f()
		if err != nil {
			e.Release()
			return nil, err
		}
		e.installCell(v)
	}
	e.consume()
	return newRefMut(e.sh, e.key, e.cell), nil
}

// Insert unconditionally installs v, discarding any previous value, and
// returns a RefMut to the new value.
func (e *Entry[K, V]) Insert(v V) *RefMut[K, V] {
	e.installCell(v)
	e.consume()
	return newRefMut(e.sh, e.key, e.cell)
}

// InsertEntry unconditionally installs v and returns an OccupiedEntry that
// still holds the write lock, for chaining further Occupied-only calls.
func (e *Entry[K, V]) InsertEntry(v V) *OccupiedEntry[K, V] {
	e.installCell(v)
	e.consume()
	return &OccupiedEntry[K, V]{sh: e.sh, key: e.key, cell: e.cell}
}

// Occupied narrows the entry to its occupied view. It panics if the entry
// is vacant -- check IsOccupied first.
func (e *Entry[K, V]) Occupied() *OccupiedEntry[K, V] {
	if e.cell == nil {
		panic("shardmap: Occupied called on a vacant entry")
	}
	e.consume()
	return &OccupiedEntry[K, V]{sh: e.sh, key: e.key, cell: e.cell}
}

// Vacant narrows the entry to its vacant view. It panics if the entry is
// occupied -- check IsVacant first.
func (e *Entry[K, V]) Vacant() *VacantEntry[K, V] {
	if e.cell != nil {
		panic("shardmap: Vacant called on an occupied entry")
	}
	e.consume()
	return &VacantEntry[K, V]{sh: e.sh, hash: e.hash, key: e.key}
}

// OccupiedEntry is a key known to already hold a value, still under the
// shard's write lock.
type OccupiedEntry[K comparable, V any] struct {
	sh       *shard[K, V]
	key      K
	cell     *rawtable.Cell[V]
	released bool
}

// Get returns a pointer to the current value.
func (o *OccupiedEntry[K, V]) Get() *V { return &o.cell.Value }

// GetMut hands the write lock off to a RefMut pointing at the same value.
func (o *OccupiedEntry[K, V]) GetMut() *RefMut[K, V] {
	o.released = true
	return newRefMut(o.sh, o.key, o.cell)
}

// IntoRef is an alias for GetMut, matching the naming spec section 4.6
// uses for the conversion.
func (o *OccupiedEntry[K, V]) IntoRef() *RefMut[K, V] { return o.GetMut() }

// ReplaceValue installs v and returns the value it replaced.
func (o *OccupiedEntry[K, V]) ReplaceValue(v V) V {
	old := o.cell.Value
	o.cell.Value = v
	return old
}

// Remove deletes the entry and releases the write lock, returning the
// removed value.
func (o *OccupiedEntry[K, V]) Remove() V {
	_, v := o.removeLocked()
	o.release()
	return v
}

// RemoveEntry is Remove but also returns the key.
func (o *OccupiedEntry[K, V]) RemoveEntry() (K, V) {
	k, v := o.removeLocked()
	o.release()
	return k, v
}

func (o *OccupiedEntry[K, V]) removeLocked() (K, V) {
	v, _ := o.sh.table.Remove(o.cell.Hash, o.key)
	return o.key, v
}

func (o *OccupiedEntry[K, V]) release() {
	if o.released {
		return
	}
	o.released = true
	o.sh.wUnlock()
}

// ReplaceEntry installs v, returning the previous (key, value) pair plus a
// fresh OccupiedEntry for the new value -- the write lock stays held
// throughout, handed to the returned entry.
func (o *OccupiedEntry[K, V]) ReplaceEntry(v V) (K, V, *OccupiedEntry[K, V]) {
	oldKey, oldVal := o.key, o.cell.Value
	o.cell.Value = v
	return oldKey, oldVal, &OccupiedEntry[K, V]{sh: o.sh, key: o.key, cell: o.cell}
}

// VacantEntry is a key with no value yet, still under the shard's write
// lock. It owns the key so that the public API cannot mutate it between
// classification and insertion (spec section 4.6's algorithmic note).
type VacantEntry[K comparable, V any] struct {
	sh       *shard[K, V]
	hash     uint64
	key      K
	released bool
}

// IntoKey returns the key this entry was classified for.
func (v *VacantEntry[K, V]) IntoKey() K { return v.key }

// Insert installs val under the entry's key and hands the write lock to
// the returned RefMut.
func (v *VacantEntry[K, V]) Insert(val V) *RefMut[K, V] {
	v.sh.table.Insert(v.hash, v.key, val)
	cell, _ := v.sh.table.Find(v.hash, v.key)
	v.released = true
	return newRefMut(v.sh, v.key, cell)
}

// InsertEntry is Insert but returns an OccupiedEntry, still holding the
// write lock, for further Occupied-only calls.
func (v *VacantEntry[K, V]) InsertEntry(val V) *OccupiedEntry[K, V] {
	v.sh.table.Insert(v.hash, v.key, val)
	cell, _ := v.sh.table.Find(v.hash, v.key)
	v.released = true
	return &OccupiedEntry[K, V]{sh: v.sh, key: v.key, cell: cell}
}
