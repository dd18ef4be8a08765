package order

import (
	"cmp"
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/colsort/column"
	"github.com/hupe1980/colsort/resource"
)

// DefaultParallelThreshold is the input length below which ranking stays sequential.
const DefaultParallelThreshold = 1 << 16

// Parallel configures RankParallel.
type Parallel struct {
	// Workers is the number of chunks sorted concurrently. <= 1 disables parallelism.
	Workers int
	// Threshold is the minimum input length for the parallel path.
	// If 0, DefaultParallelThreshold is used.
	Threshold int
	// Controller bounds workers and scratch memory. nil means unbounded.
	Controller *resource.Controller
}

// RankParallel returns the same permutation as Rank, sorting disjoint chunks of
// the position array concurrently and merging them pairwise.
//
// Each goroutine writes only its own output range. When the controller refuses
// the scratch buffer, ranking falls back to the sequential path. A cancelled
// ctx aborts the rank and returns ctx.Err().
func RankParallel[K cmp.Ordered](ctx context.Context, keys []K, cfg Config, par Parallel) (column.Permutation, error) {
	n := len(keys)
	threshold := par.Threshold
	if threshold <= 0 {
		threshold = DefaultParallelThreshold
	}
	workers := par.Workers
	if workers <= 1 || n < threshold || n < 2*workers {
		return Rank(keys, cfg), nil
	}

	scratch := int64(n) * strconv.IntSize / 8
	if !par.Controller.TryAcquireMemory(scratch) {
		return Rank(keys, cfg), nil
	}
	defer par.Controller.ReleaseMemory(scratch)

	l := NewLess(keys, cfg)
	perm := column.Identity(n)
	buf := make([]int, n)

	chunk := (n + workers - 1) / workers
	bounds := make([]int, 0, workers+1)
	for lo := 0; lo < n; lo += chunk {
		bounds = append(bounds, lo)
	}
	bounds = append(bounds, n)

	g, gctx := errgroup.WithContext(ctx)
	for c := 0; c+1 < len(bounds); c++ {
		lo, hi := bounds[c], bounds[c+1]
		g.Go(func() error {
			if err := par.Controller.AcquireWorker(gctx); err != nil {
				return err
			}
			defer par.Controller.ReleaseWorker()
			l.mergeSort(perm[lo:hi], buf[lo:hi])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	src, dst := []int(perm), buf
	inBuf := false
	for len(bounds) > 2 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := make([]int, 0, len(bounds)/2+2)
		g, gctx := errgroup.WithContext(ctx)
		for r := 0; r+1 < len(bounds); r += 2 {
			lo := bounds[r]
			next = append(next, lo)
			if r+2 >= len(bounds) {
				// Odd run out: carry it to the next level unchanged.
				hi := bounds[r+1]
				copy(dst[lo:hi], src[lo:hi])
				continue
			}
			mid, hi := bounds[r+1], bounds[r+2]
			g.Go(func() error {
				if err := par.Controller.AcquireWorker(gctx); err != nil {
					return err
				}
				defer par.Controller.ReleaseWorker()
				l.merge(dst[lo:hi], src[lo:mid], src[mid:hi])
				return nil
			})
		}
		next = append(next, n)
		if err := g.Wait(); err != nil {
			return nil, err
		}
		bounds = next
		src, dst = dst, src
		inBuf = !inBuf
	}
	if inBuf {
		copy(perm, src)
	}
	return perm, nil
}
