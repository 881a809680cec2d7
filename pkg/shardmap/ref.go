package shardmap

// ref.go implements the guard kinds from spec section 4.5: handles that tie
// a borrowed &K/&V/&mut V to the lifetime of a held shard lock. The
// invariant each one upholds is the same one the teacher's shard.get/put
// upheld informally with defer s.mu.RUnlock(): the lock is released exactly
// once, and only by the guard (or whoever explicitly Releases it), never by
// the table operation that produced it.
//
// © 2025 shardmap authors. MIT License.

import "github.com/Voskan/shardmap/internal/rawtable"

// Ref borrows a key/value pair under a shard's read lock. The read lock is
// held until Release is called; multiple Refs into the same shard may
// coexist (they share the one read lock), but a Ref must never outlive the
// Map, and the caller must not call an operation that needs a conflicting
// lock on the same shard while holding one -- that is a documented
// programmer error (spec section 4.4), not a defect this type can prevent.
type Ref[K comparable, V any] struct {
	sh       *shard[K, V]
	key      K
	cell     *rawtable.Cell[V]
	released bool
}

func newRef[K comparable, V any](sh *shard[K, V], key K, cell *rawtable.Cell[V]) *Ref[K, V] {
	return &Ref[K, V]{sh: sh, key: key, cell: cell}
}

// Key returns the borrowed key.
func (r *Ref[K, V]) Key() K { return r.key }

// Value returns a pointer to the borrowed value, valid until Release.
func (r *Ref[K, V]) Value() *V { return &r.cell.Value }

// Pair returns both the key and a pointer to the value.
func (r *Ref[K, V]) Pair() (K, *V) { return r.key, &r.cell.Value }

// Release drops the shard's read lock. Calling Release twice, or using the
// Ref after Release, is a programmer error.
func (r *Ref[K, V]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.sh.rUnlock()
}

// RefMulti is the iteration counterpart of Ref: each RefMulti yielded by
// Iter takes its own reader hold on the shard's lock, independent of the
// iteration pass's hold and of its siblings' (see iter.go), so it stays
// valid until its own Release even after the pass has moved on.
type RefMulti[K comparable, V any] struct {
	Ref[K, V]
}

// RefMut borrows a key/value pair under a shard's write lock, exposing a
// mutable pointer to the value.
type RefMut[K comparable, V any] struct {
	sh        *shard[K, V]
	key       K
	cell      *rawtable.Cell[V]
	released  bool
	onRelease func() // when set, Release calls this instead of sh.wUnlock directly
}

func newRefMut[K comparable, V any](sh *shard[K, V], key K, cell *rawtable.Cell[V]) *RefMut[K, V] {
	return &RefMut[K, V]{sh: sh, key: key, cell: cell}
}

// Key returns the borrowed key.
func (r *RefMut[K, V]) Key() K { return r.key }

// Value returns a mutable pointer to the borrowed value, valid until
// Release or Downgrade.
func (r *RefMut[K, V]) Value() *V { return &r.cell.Value }

// Pair returns both the key and a mutable pointer to the value.
func (r *RefMut[K, V]) Pair() (K, *V) { return r.key, &r.cell.Value }

// Release drops the shard's write lock -- or, for a RefMutMulti yielded
// during IterMut, its share of the one write lock held for the whole
// shard's pass (see iter.go; the underlying lock is released exactly once,
// when the pass and every sibling have dropped their shares).
func (r *RefMut[K, V]) Release() {
	if r.released {
		return
	}
	r.released = true
	if r.onRelease != nil {
		r.onRelease()
		return
	}
	r.sh.wUnlock()
}

// Downgrade atomically exchanges the held write lock for a read lock on the
// same shard and returns a Ref pointing at the same entry, without
// revalidating it -- correct only because no other goroutine could have
// observed the slot while the write lock was held (spec section 4.5).
// Calling Downgrade consumes the RefMut; using it afterward is a programmer
// error.
func (r *RefMut[K, V]) Downgrade() *Ref[K, V] {
	if r.released {
		panic("shardmap: Downgrade called on a released RefMut")
	}
	r.released = true
	r.sh.downgrade()
	return newRef(r.sh, r.key, r.cell)
}

// RefMutMulti is the mutable-iteration counterpart of RefMut: unlike a
// plain RefMut, every RefMutMulti yielded from the same shard during one
// IterMut pass shares the single write lock IterMut took for that shard,
// since a write lock (unlike a read lock) cannot be acquired more than
// once concurrently. Releasing one of them drops only its own share; the
// write lock stays held until the pass and every sibling are done.
type RefMutMulti[K comparable, V any] struct {
	RefMut[K, V]
}
