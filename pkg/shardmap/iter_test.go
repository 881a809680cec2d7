package shardmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shardmap "github.com/Voskan/shardmap/pkg/shardmap"
)

// TestIterVisitsEverything covers testable property 8's "every key present
// throughout the iteration is visited, never visits a key that was never
// present".
func TestIterVisitsEverything(t *testing.T) {
	m := shardmap.MustNew[int, int](shardmap.WithShardAmount[int, int](8))
	want := map[int]int{}
	for i := 0; i < 500; i++ {
		m.Insert(i, i*2)
		want[i] = i * 2
	}

	got := map[int]int{}
	for ref := range m.Iter() {
		k, v := ref.Pair()
		got[k] = *v
		ref.Release()
	}
	assert.Equal(t, want, got)
}

func TestIterEarlyBreakReleasesLocks(t *testing.T) {
	m := shardmap.MustNew[int, int](shardmap.WithShardAmount[int, int](4))
	for i := 0; i < 50; i++ {
		m.Insert(i, i)
	}

	count := 0
	for ref := range m.Iter() {
		ref.Release()
		count++
		if count == 5 {
			break
		}
	}
	assert.Equal(t, 5, count)

	// The map must still be fully usable -- no lock was left held.
	m.Insert(1000, 1000)
	assert.True(t, m.ContainsKey(1000))
	m.Clear()
	assert.Equal(t, 0, m.Len())
}

func TestIterMutMutatesInPlace(t *testing.T) {
	m := shardmap.MustNew[int, int](shardmap.WithShardAmount[int, int](4))
	for i := 0; i < 20; i++ {
		m.Insert(i, i)
	}

	for ref := range m.IterMut() {
		*ref.Value() = *ref.Value() + 100
		ref.Release()
	}

	for i := 0; i < 20; i++ {
		ref, ok := m.Get(i)
		require.True(t, ok)
		assert.Equal(t, i+100, *ref.Value())
		ref.Release()
	}
}

func TestRangeStopsEarly(t *testing.T) {
	m := shardmap.MustNew[int, int](shardmap.WithShardAmount[int, int](4))
	for i := 0; i < 100; i++ {
		m.Insert(i, i)
	}

	visited := 0
	m.Range(func(ref *shardmap.RefMulti[int, int]) bool {
		visited++
		return visited < 10
	})
	assert.Equal(t, 10, visited)
}

func TestRangeMutVisitsAll(t *testing.T) {
	m := shardmap.MustNew[int, int](shardmap.WithShardAmount[int, int](4))
	for i := 0; i < 30; i++ {
		m.Insert(i, 1)
	}
	m.RangeMut(func(ref *shardmap.RefMutMulti[int, int]) bool {
		*ref.Value() *= 2
		return true
	})
	for i := 0; i < 30; i++ {
		ref, ok := m.Get(i)
		require.True(t, ok)
		assert.Equal(t, 2, *ref.Value())
		ref.Release()
	}
}
