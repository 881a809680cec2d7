package shardmap_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shardmap "github.com/Voskan/shardmap/pkg/shardmap"
)

func TestParallelRangeVisitsEverything(t *testing.T) {
	m := shardmap.MustNew[int, int](shardmap.WithShardAmount[int, int](8))
	for i := 0; i < 1000; i++ {
		m.Insert(i, i)
	}

	var sum atomic.Int64
	err := m.ParallelRange(context.Background(), func(ctx context.Context, key, value int) error {
		sum.Add(int64(value))
		return nil
	})
	require.NoError(t, err)

	want := int64(0)
	for i := 0; i < 1000; i++ {
		want += int64(i)
	}
	assert.Equal(t, want, sum.Load())
}

func TestParallelRangePropagatesError(t *testing.T) {
	m := shardmap.MustNew[int, int](shardmap.WithShardAmount[int, int](8))
	for i := 0; i < 100; i++ {
		m.Insert(i, i)
	}
	sentinel := errors.New("boom")

	err := m.ParallelRange(context.Background(), func(ctx context.Context, key, value int) error {
		if key == 50 {
			return sentinel
		}
		return nil
	})
	assert.ErrorIs(t, err, sentinel)
}
