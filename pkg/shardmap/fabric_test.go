package shardmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	shardmap "github.com/Voskan/shardmap/pkg/shardmap"
)

func TestDetermineShardInBounds(t *testing.T) {
	m := shardmap.MustNew[int, int](shardmap.WithShardAmount[int, int](32))
	for i := 0; i < 10000; i++ {
		h := m.HashKey(i)
		idx := m.DetermineShard(h)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 32)
	}
}

func TestDefaultShardCountIsPowerOfTwo(t *testing.T) {
	m := shardmap.MustNew[int, int]()
	n := len(m.Shards())
	assert.Greater(t, n, 0)
	assert.Zero(t, n&(n-1), "shard count %d is not a power of two", n)
}

func TestShardCountHonorsExplicitPowerOfTwo(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8, 16, 64} {
		m := shardmap.MustNew[int, int](shardmap.WithShardAmount[int, int](n))
		assert.Len(t, m.Shards(), n)
	}
}
