package shardmap

// parallel.go adds a parallel iteration adapter over the raw shard API,
// one goroutine per shard, coordinated with golang.org/x/sync/errgroup --
// a package the teacher imported but never used, wired here into a
// user-facing bulk read.
//
// © 2025 shardmap authors. MIT License.

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Voskan/shardmap/internal/rawtable"
)

// ParallelRange calls fn once per shard, on its own goroutine, each
// visiting only that shard's entries under its own read lock -- safe
// because shards share no state with each other. fn returning an error
// cancels ctx for the remaining shards (errgroup.WithContext) and the
// first non-nil error is returned; every shard's goroutine checks ctx
// before each entry, so shards already in flight stop their pass at the
// next entry once ctx is done.
//
// This trades the single global ordering of Range for wall-clock: with N
// shards and N or more GOMAXPROCS, ParallelRange visits the whole map in
// roughly 1/N the time Range would, at the cost of no longer visiting
// shards in a fixed sequence.
func (m *Map[K, V]) ParallelRange(ctx context.Context, fn func(ctx context.Context, key K, value V) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, sh := range m.fabric.shards() {
		sh := sh
		g.Go(func() error {
			sh.rLock()
			defer sh.rUnlock()

			var ferr error
			sh.table.Iterate(func(k K, cell *rawtable.Cell[V]) bool {
				select {
				case <-gctx.Done():
					ferr = gctx.Err()
					return false
				default:
				}
				if err := fn(gctx, k, cell.Value); err != nil {
					ferr = err
					return false
				}
				return true
			})
			return ferr
		})
	}
	return g.Wait()
}
