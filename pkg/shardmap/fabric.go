package shardmap

// fabric.go maps a 64-bit hash to one of a fixed number of shards. The
// count is always a power of two so the index is a shift, not a division,
// and we take the *high* bits of the hash (not the low ones) so that a
// hasher with weak low-order bits still spreads keys evenly across shards.
//
// © 2025 shardmap authors. MIT License.

import (
	"runtime"
)

// defaultShardMultiplier matches the teacher's own shard-sizing heuristic
// (it picked a fixed shard count at construction time); here it drives the
// "4 x next_power_of_two(ncpus)" default from spec section 3.
const defaultShardMultiplier = 4

// determineShardCount derives the default shard count for a map that was
// not given an explicit WithShardAmount: the smallest power of two >=
// 4*runtime.NumCPU(), with a floor of 1.
func determineShardCount() int {
	n := runtime.NumCPU() * defaultShardMultiplier
	return nextPowerOfTwo(n, 1)
}

// nextPowerOfTwo returns the smallest power of two >= n, never returning
// less than floor.
func nextPowerOfTwo(n, floor int) int {
	if n < floor {
		n = floor
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// shiftFor returns the bit-shift that turns a 64-bit hash into an index in
// [0, nshards) when nshards is a power of two: shift = 64 - log2(nshards).
func shiftFor(nshards int) uint {
	bits := 0
	for (1 << bits) < nshards {
		bits++
	}
	return 64 - uint(bits)
}

// shardFabric is the fixed array of shards plus the shift used to map a
// hash to a shard index. It is immutable after construction and therefore
// safe for concurrent, lock-free shared access -- only the shards
// themselves carry locks.
type shardFabric[K comparable, V any] struct {
	shift  uint
	shardv []*shard[K, V]
}

// newShardFabric builds nshards shards, each pre-sized to hold roughly
// capacityHint/nshards entries (rounded up, per spec section 6's "Capacity
// is distributed across shards, rounded up per shard").
func newShardFabric[K comparable, V any](nshards, capacityHint int) *shardFabric[K, V] {
	perShard := (capacityHint + nshards - 1) / nshards
	if perShard < 0 {
		perShard = 0
	}
	f := &shardFabric[K, V]{
		shift:  shiftFor(nshards),
		shardv: make([]*shard[K, V], nshards),
	}
	for i := range f.shardv {
		f.shardv[i] = newShard[K, V](perShard)
	}
	return f
}

// determineShard maps a 64-bit hash to a shard index using the high bits.
func (f *shardFabric[K, V]) determineShard(hash uint64) int {
	return int(hash >> f.shift)
}

// shards exposes the raw shard slice, in array order, for the raw API and
// for operations (clear, retain, alter_all, iter_mut) that must lock every
// shard in ascending order.
func (f *shardFabric[K, V]) shards() []*shard[K, V] {
	return f.shardv
}

// shardFor is a convenience combining hash -> index -> *shard.
func (f *shardFabric[K, V]) shardFor(hash uint64) *shard[K, V] {
	return f.shardv[f.determineShard(hash)]
}
