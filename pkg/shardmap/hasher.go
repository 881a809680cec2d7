package shardmap

// hasher.go builds per-key 64-bit hashes deterministically for a given map
// instance. The default builder is randomly seeded at construction (general-
// purpose, not DoS-resistant by design choice of determinism); callers that
// need a deterministic or attacker-resistant hash install their own
// KeyHasher via WithHasher.
//
// © 2025 shardmap authors. MIT License.

import (
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// KeyHasher produces the 64-bit digest a Map uses to pick a shard and to
// index within it. A KeyHasher must be safe for concurrent use by multiple
// goroutines, and the hash of a given key must never change for the
// lifetime of the map (spec section 4.1's stability invariant).
type KeyHasher[K comparable] interface {
	Hash(key K) uint64
}

// HasherBuilder constructs the KeyHasher a new Map will use. It is called
// exactly once, at construction; the returned KeyHasher is then shared
// (read-only) by every operation on the map, matching "a clone is used per
// operation" in spirit -- the builder is immutable after construction, only
// its single product is ever consulted.
type HasherBuilder[K comparable] func() KeyHasher[K]

// mapHasher is the default KeyHasher: a per-instance random seed fed
// through hash/maphash.Comparable, which works for any comparable K without
// requiring K to expose its bytes.
type mapHasher[K comparable] struct {
	seed maphash.Seed
}

func (h mapHasher[K]) Hash(key K) uint64 {
	return maphash.Comparable(h.seed, key)
}

// DefaultHasher returns the map's default, randomly-seeded general-purpose
// hasher builder.
func DefaultHasher[K comparable]() HasherBuilder[K] {
	return func() KeyHasher[K] {
		return mapHasher[K]{seed: maphash.MakeSeed()}
	}
}

// xxhashStringHasher is a faster, streaming-friendly hasher for string keys,
// wired in from the xxhash dependency the rest of the pack's sharded-map
// ports depend on. It is randomly seeded per instance: the seed is XORed
// into the digest, which changes each key's hash per instance but not
// which keys share a shard or collide with each other.
type xxhashStringHasher struct {
	seed uint64
}

func (h xxhashStringHasher) Hash(key string) uint64 {
	return xxhash.Sum64String(key) ^ h.seed
}

// XXHashStringHasher returns a HasherBuilder for string-keyed maps backed by
// xxhash instead of hash/maphash. Prefer this when keys are large strings
// and raw throughput matters more than defense against adversarial inputs.
func XXHashStringHasher() HasherBuilder[string] {
	return func() KeyHasher[string] {
		return xxhashStringHasher{seed: randomSeed()}
	}
}

// randomSeed derives a random uint64 from a fresh maphash seed. maphash.Seed
// itself carries no exported numeric accessor, so we fold it through one
// throwaway digest to get a mixable uint64.
func randomSeed() uint64 {
	var h maphash.Hash
	h.SetSeed(maphash.MakeSeed())
	return h.Sum64()
}
