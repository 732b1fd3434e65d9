// Package pipeline runs pure per-chunk transforms over large row sets.
//
// The model is map-then-merge: the input is partitioned into fixed-size
// chunks, each chunk is transformed independently on a bounded worker
// pool, and the per-chunk results are concatenated in chunk order.
// Workers share nothing, so a transform must not close over mutable
// state. Callers sort the merged result by its primary key before
// serializing.
package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map partitions in into chunks of chunkSize rows, applies fn to each
// chunk on at most workers goroutines, and returns the concatenated
// results in chunk order.
func Map[T, R any](ctx context.Context, in []T, workers, chunkSize int, fn func([]T) []R) ([]R, error) {
	if len(in) == 0 {
		return nil, nil
	}
	if workers < 1 {
		workers = 1
	}
	if chunkSize < 1 {
		chunkSize = len(in)
	}

	numChunks := (len(in) + chunkSize - 1) / chunkSize
	results := make([][]R, numChunks)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < numChunks; i++ {
		i := i
		lo := i * chunkSize
		hi := min(lo+chunkSize, len(in))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = fn(in[lo:hi])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, r := range results {
		total += len(r)
	}
	out := make([]R, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}
