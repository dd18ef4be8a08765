package order

import (
	"cmp"

	"github.com/hupe1980/colsort/column"
)

// insertionRun is the length of the runs sorted before merging starts.
const insertionRun = 32

// Rank returns the permutation that orders keys under cfg.
// It runs in O(n log n) comparisons with one scratch buffer of n positions.
func Rank[K cmp.Ordered](keys []K, cfg Config) column.Permutation {
	perm := column.Identity(len(keys))
	if len(keys) < 2 {
		return perm
	}
	l := NewLess(keys, cfg)
	l.mergeSort(perm, make([]int, len(perm)))
	return perm
}

// mergeSort sorts p in place using buf (same length) as scratch.
func (l Less[K]) mergeSort(p, buf []int) {
	n := len(p)
	if n < 2 {
		return
	}
	for lo := 0; lo < n; lo += insertionRun {
		l.insertionSort(p[lo:min(lo+insertionRun, n)])
	}
	if n <= insertionRun {
		return
	}

	src, dst := p, buf
	inBuf := false
	for width := insertionRun; width < n; width *= 2 {
		for lo := 0; lo < n; lo += 2 * width {
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			l.merge(dst[lo:hi], src[lo:mid], src[mid:hi])
		}
		src, dst = dst, src
		inBuf = !inBuf
	}
	if inBuf {
		copy(p, src)
	}
}

func (l Less[K]) insertionSort(p []int) {
	for i := 1; i < len(p); i++ {
		x := p[i]
		j := i
		for j > 0 && l.Before(x, p[j-1]) {
			p[j] = p[j-1]
			j--
		}
		p[j] = x
	}
}

// merge writes the ordered union of left and right into dst.
// On equal order the left element wins, which keeps the merge stable.
func (l Less[K]) merge(dst, left, right []int) {
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if l.Before(right[j], left[i]) {
			dst[k] = right[j]
			j++
		} else {
			dst[k] = left[i]
			i++
		}
		k++
	}
	k += copy(dst[k:], left[i:])
	copy(dst[k:], right[j:])
}
