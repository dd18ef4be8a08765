package topk

import (
	"cmp"

	"github.com/hupe1980/colsort/internal/order"
)

// boundedHeap retains the best k positions seen so far. The root is the worst
// retained position, so a better candidate replaces it in O(log k).
// Value-based storage: items are plain positions.
type boundedHeap[K cmp.Ordered] struct {
	less  order.Less[K]
	items []int
	limit int
}

func newBoundedHeap[K cmp.Ordered](less order.Less[K], limit int) *boundedHeap[K] {
	return &boundedHeap[K]{
		less:  less,
		items: make([]int, 0, limit),
		limit: limit,
	}
}

// worse reports whether items[i] ranks after items[j] (max-heap on rank).
func (h *boundedHeap[K]) worse(i, j int) bool {
	return h.less.Before(h.items[j], h.items[i])
}

// Offer considers position p for the retained set.
func (h *boundedHeap[K]) Offer(p int) {
	if len(h.items) < h.limit {
		h.items = append(h.items, p)
		h.siftUp(len(h.items) - 1)
		return
	}
	if h.limit == 0 || !h.less.Before(p, h.items[0]) {
		return
	}
	h.items[0] = p
	h.siftDown(0)
}

// Drain empties the heap and returns the retained positions best-first.
func (h *boundedHeap[K]) Drain() []int {
	out := make([]int, len(h.items))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = h.pop()
	}
	return out
}

func (h *boundedHeap[K]) pop() int {
	n := len(h.items)
	root := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if n-1 > 0 {
		h.siftDown(0)
	}
	return root
}

func (h *boundedHeap[K]) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !h.worse(i, p) {
			return
		}
		h.items[i], h.items[p] = h.items[p], h.items[i]
		i = p
	}
}

func (h *boundedHeap[K]) siftDown(i int) {
	n := len(h.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		r := l + 1
		if r < n && h.worse(r, l) {
			best = r
		}
		if !h.worse(best, i) {
			return
		}
		h.items[i], h.items[best] = h.items[best], h.items[i]
		i = best
	}
}
