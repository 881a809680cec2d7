package shardmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shardmap "github.com/Voskan/shardmap/pkg/shardmap"
)

func TestHashKeyIsStableForMapLifetime(t *testing.T) {
	m := shardmap.MustNew[string, int]()
	h1 := m.HashKey("hello")
	h2 := m.HashKey("hello")
	assert.Equal(t, h1, h2)
}

func TestWithHasherIsUsed(t *testing.T) {
	calls := 0
	hb := func() shardmap.KeyHasher[string] {
		calls++
		return shardmap.DefaultHasher[string]()()
	}
	m, err := shardmap.New[string, int](shardmap.WithHasher[string, int](hb))
	require.NoError(t, err)

	// The builder is consulted exactly once, at construction.
	assert.Equal(t, 1, calls)

	m.HashKey("a")
	m.HashKey("b")
	assert.Equal(t, 1, calls)
}

func TestXXHashStringHasherDeterministicWithinInstance(t *testing.T) {
	hb := shardmap.XXHashStringHasher()
	h := hb()
	a := h.Hash("same-key")
	b := h.Hash("same-key")
	assert.Equal(t, a, b)
}
