package shardmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shardmap "github.com/Voskan/shardmap/pkg/shardmap"
)

func TestUpsertInsertsWhenAbsent(t *testing.T) {
	m := shardmap.MustNew[string, int]()
	m.Upsert("a", 5, func(old, new int) int { return old + new })
	ref, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 5, *ref.Value())
	ref.Release()
}

func TestUpsertCombinesWhenPresent(t *testing.T) {
	m := shardmap.MustNew[string, int]()
	m.Insert("a", 10)
	m.Upsert("a", 5, func(old, new int) int { return old + new })
	ref, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 15, *ref.Value())
	ref.Release()
}

func TestSetIfAbsent(t *testing.T) {
	m := shardmap.MustNew[string, int]()
	assert.True(t, m.SetIfAbsent("a", 1))
	assert.False(t, m.SetIfAbsent("a", 2))

	ref, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, *ref.Value())
	ref.Release()
}

func TestMSetMGet(t *testing.T) {
	m := shardmap.MustNew[string, int]()
	m.MSet(map[string]int{"a": 1, "b": 2, "c": 3})

	got := m.MGet([]string{"a", "b", "z"})
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, got)
}

func TestKeysAndValues(t *testing.T) {
	m := shardmap.MustNew[int, int](shardmap.WithShardAmount[int, int](4))
	for i := 0; i < 10; i++ {
		m.Insert(i, i*i)
	}

	keys := m.Keys()
	values := m.Values()
	assert.Len(t, keys, 10)
	assert.Len(t, values, 10)

	seen := map[int]bool{}
	for _, k := range keys {
		seen[k] = true
	}
	for i := 0; i < 10; i++ {
		assert.True(t, seen[i])
	}
}

func TestClone(t *testing.T) {
	m := shardmap.MustNew[string, int](shardmap.WithShardAmount[string, int](4))
	m.Insert("a", 1)
	m.Insert("b", 2)

	clone, err := m.Clone()
	require.NoError(t, err)
	assert.Equal(t, m.Len(), clone.Len())

	// Mutating the clone must not affect the source.
	clone.Insert("a", 999)
	ref, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, *ref.Value())
	ref.Release()
}

func TestShardDistributionMatchesLen(t *testing.T) {
	m := shardmap.MustNew[int, int](shardmap.WithShardAmount[int, int](8))
	for i := 0; i < 73; i++ {
		m.Insert(i, i)
	}
	total := 0
	for _, s := range m.ShardDistribution() {
		total += s.Entries
	}
	assert.Equal(t, 73, total)
	assert.Equal(t, m.Len(), total)
}
