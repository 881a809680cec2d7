package shardmap

// loader.go adapts the teacher's pkg/loader.go thundering-herd guard
// (singleflight keyed by the cache key, one in-flight fetch per key no
// matter how many goroutines call GetOrLoad concurrently) to the map's
// insert-on-miss semantics instead of the cache's insert-with-TTL ones.
//
// © 2025 shardmap authors. MIT License.

import (
	"context"
	"fmt"
)

// Loader fetches the value for a key that GetOrLoad did not find in the
// map. Returning an error aborts the call for every waiting goroutine and
// inserts nothing.
type Loader[K comparable, V any] func(ctx context.Context, key K) (V, error)

// GetOrLoad returns the current value for key, loading it via load on a
// miss. Concurrent GetOrLoad calls for the same key collapse into a single
// load call (golang.org/x/sync/singleflight) the way the teacher's
// GetOrLoad collapsed concurrent fetches for the same cache entry; callers
// that lose the race simply receive the winner's result.
func (m *Map[K, V]) GetOrLoad(ctx context.Context, key K, load Loader[K, V]) (V, error) {
	if ref, ok := m.Get(key); ok {
		v := *ref.Value()
		ref.Release()
		return v, nil
	}

	sfKey := fmt.Sprintf("%v", key)
	v, err, _ := m.loadSF.Do(sfKey, func() (any, error) {
		// Re-check under the singleflight key: another goroutine may have
		// already populated the entry between our Get miss above and here.
		if ref, ok := m.Get(key); ok {
			v := *ref.Value()
			ref.Release()
			return v, nil
		}
		val, err := load(ctx, key)
		if err != nil {
			return val, err
		}
		m.Insert(key, val)
		return val, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}
