package column

import (
	"cmp"

	"github.com/RoaringBitmap/roaring/v2"
)

// View is a read-only restriction of a source to a list of its positions.
// The view re-numbers the selected positions 0..m-1; labels and values are read
// from the root source unchanged.
type View[V, I cmp.Ordered] struct {
	root      Source[V, I]
	positions []int
}

var _ Source[float64, int] = (*View[float64, int])(nil)

// Restrict returns the view src[start:stop:step] with slice-expression semantics
// of dynamic languages: negative start/stop count from the end, bounds are
// clamped, and a negative step walks backwards. Out-of-range or empty bounds
// yield an empty view. step == 0 is an invalid argument.
//
// To express an open upper bound pass src.Len(); an open lower bound with a
// negative step is -(src.Len()+1).
func Restrict[V, I cmp.Ordered](src Source[V, I], start, stop, step int) (*View[V, I], error) {
	if step == 0 {
		return nil, invalidArgument("slice step cannot be zero")
	}
	positions := slicePositions(src.Len(), start, stop, step)
	return newView(src, positions), nil
}

// Mask returns the view of the positions set in bm, in ascending order.
// Bits at or beyond src.Len() are ignored.
func Mask[V, I cmp.Ordered](src Source[V, I], bm *roaring.Bitmap) *View[V, I] {
	return newView(src, maskPositions(src.Len(), bm))
}

// newView resolves local positions against the root of src so views never nest.
func newView[V, I cmp.Ordered](src Source[V, I], positions []int) *View[V, I] {
	if parent, ok := src.(*View[V, I]); ok {
		resolved := make([]int, len(positions))
		for i, p := range positions {
			resolved[i] = parent.positions[p]
		}
		return &View[V, I]{root: parent.root, positions: resolved}
	}
	return &View[V, I]{root: src, positions: positions}
}

// Len returns the number of positions in the view.
func (v *View[V, I]) Len() int { return len(v.positions) }

// Value returns the value at view position p.
func (v *View[V, I]) Value(p int) V { return v.root.Value(v.positions[p]) }

// Label returns the root label at view position p.
func (v *View[V, I]) Label(p int) I { return v.root.Label(v.positions[p]) }

// Positions returns the root positions covered by the view. Callers must not modify it.
func (v *View[V, I]) Positions() []int { return v.positions }

// Root returns the source the positions refer to.
func (v *View[V, I]) Root() Source[V, I] { return v.root }

// slicePositions lists the positions of a [start:stop:step] slice over n elements.
func slicePositions(n, start, stop, step int) []int {
	lower, upper := 0, n
	if step < 0 {
		lower, upper = -1, n-1
	}
	clamp := func(x int) int {
		if x < 0 {
			x += n
			if x < lower {
				return lower
			}
			return x
		}
		if x > upper {
			return upper
		}
		return x
	}
	start, stop = clamp(start), clamp(stop)

	var count int
	switch {
	case step > 0 && start < stop:
		count = (stop-start-1)/step + 1
	case step < 0 && stop < start:
		count = (start-stop-1)/(-step) + 1
	}

	positions := make([]int, count)
	for i := range positions {
		positions[i] = start + i*step
	}
	return positions
}

func maskPositions(n int, bm *roaring.Bitmap) []int {
	if bm == nil {
		return nil
	}
	positions := make([]int, 0, min(int(bm.GetCardinality()), n))
	it := bm.Iterator()
	for it.HasNext() {
		p := int(it.Next())
		if p >= n {
			break
		}
		positions = append(positions, p)
	}
	return positions
}
