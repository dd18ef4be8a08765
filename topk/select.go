package topk

import (
	"cmp"
	"slices"

	"github.com/hupe1980/colsort/column"
	"github.com/hupe1980/colsort/internal/order"
)

// heapRatio is how much smaller than n the selection must be to use the heap.
const heapRatio = 8

// Select returns the positions (local to src) of the selected elements in
// ranked order. Options are validated before any work.
func Select[V, I cmp.Ordered](src column.Source[V, I], opts Options, nulls order.Nulls) (column.Permutation, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return SelectKeys(column.Values(src), opts, nulls), nil
}

// SelectKeys is Select over an already extracted key slice. opts must be valid.
func SelectKeys[K cmp.Ordered](keys []K, opts Options, nulls order.Nulls) column.Permutation {
	n := len(keys)
	k := min(opts.K, n)
	if k <= 0 {
		return column.Permutation{}
	}

	cfg := opts.Config(nulls)
	if k*heapRatio > n {
		return slices.Clone(order.Rank(keys, cfg)[:k])
	}

	h := newBoundedHeap(order.NewLess(keys, cfg), k)
	for p := range n {
		h.Offer(p)
	}
	return column.Permutation(h.Drain())
}
