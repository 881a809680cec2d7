package shardmap

// iter.go is the iterator engine from spec section 4.7: shard-by-shard
// iteration that holds one shard's lock at a time rather than a single
// snapshot lock over the whole map (which spec section 9 rules out as
// unacceptable contention) or a copy of every entry (unacceptable memory).
//
// © 2025 shardmap authors. MIT License.

import (
	"iter"
	"sync/atomic"

	"github.com/Voskan/shardmap/internal/rawtable"
)

// Iter returns a range-over-func sequence of RefMulti items across every
// shard, in shard-array order, each shard visited under its own read lock.
// When the current shard is exhausted that lock is released and the next
// shard's read lock is acquired (spec 4.7); stopping the range early (a
// `break`) releases the current shard's lock and returns without visiting
// the rest.
//
// Every yielded RefMulti must eventually have Release called on it, same
// as a Ref obtained from Get -- forgetting leaks that one extra reader on
// the shard. Because each RefMulti holds its own independent share of the
// read lock (ordinary RWMutex reader counting), an item from shard i
// remains valid even once the sequence has advanced to shard j > i, for as
// long as the caller keeps that RefMulti around without releasing it.
func (m *Map[K, V]) Iter() iter.Seq[*RefMulti[K, V]] {
	return func(yield func(*RefMulti[K, V]) bool) {
		for _, sh := range m.fabric.shards() {
			sh.rLock()
			cont := true
			sh.table.Iterate(func(k K, cell *rawtable.Cell[V]) bool {
				sh.rLock() // this item's own independent hold
				rm := &RefMulti[K, V]{Ref: Ref[K, V]{sh: sh, key: k, cell: cell}}
				if !yield(rm) {
					cont = false
					return false
				}
				return true
			})
			sh.rUnlock() // the traversal's own hold
			if !cont {
				return
			}
		}
	}
}

// IterMut is Iter under write locks, yielding RefMutMulti. Only one write
// lock per shard can exist at a time, so every RefMutMulti produced while
// visiting a given shard shares that shard's single write lock rather than
// each taking an independent hold. The pass itself and every yielded
// RefMutMulti each count as one share; the lock is released once IterMut
// has moved past the shard (or the range is stopped early) and every
// RefMutMulti yielded from it has been released.
//
// Inserting into the shard currently being visited is forbidden -- the raw
// table is mid-iteration and such an insert would race Go's own map
// iteration semantics. Inserting into a shard not yet visited is
// permitted: it is invisible to the current pass if IterMut has not
// reached that shard yet, visible if it has already moved past it. This
// weak consistency is the deliberate trade spec section 4.7 and section 9
// describe.
func (m *Map[K, V]) IterMut() iter.Seq[*RefMutMulti[K, V]] {
	return func(yield func(*RefMutMulti[K, V]) bool) {
		for _, sh := range m.fabric.shards() {
			sh.wLock()
			var shares atomic.Int32
			shares.Store(1) // the pass's own share
			unlock := func() {
				if shares.Add(-1) == 0 {
					sh.wUnlock()
				}
			}

			cont := true
			sh.table.Iterate(func(k K, cell *rawtable.Cell[V]) bool {
				shares.Add(1) // this item's share
				rm := &RefMutMulti[K, V]{RefMut: RefMut[K, V]{sh: sh, key: k, cell: cell, onRelease: unlock}}
				if !yield(rm) {
					cont = false
					return false
				}
				return true
			})
			unlock()
			if !cont {
				return
			}
		}
	}
}

// Range is a callback-style alternative to Iter for callers who do not
// need the cross-shard liveness escape hatch: fn is called once per entry
// under the owning shard's read lock, and the RefMulti is released
// automatically as soon as fn returns. Returning false from fn stops
// iteration early, matching the IterCb convention the pack's other
// sharded-map ports use.
func (m *Map[K, V]) Range(fn func(ref *RefMulti[K, V]) bool) {
	for ref := range m.Iter() {
		keepGoing := fn(ref)
		ref.Release()
		if !keepGoing {
			return
		}
	}
}

// RangeMut is Range under write locks, auto-releasing via RefMutMulti's
// shared-release semantics.
func (m *Map[K, V]) RangeMut(fn func(ref *RefMutMulti[K, V]) bool) {
	for ref := range m.IterMut() {
		keepGoing := fn(ref)
		ref.Release()
		if !keepGoing {
			return
		}
	}
}
