package column

import "cmp"

// Source is the read interface every ordering operation consumes.
// Positions are zero-based and local to the source; Label reports the label
// bound to that position in the underlying data.
type Source[V, I cmp.Ordered] interface {
	Len() int
	Value(p int) V
	Label(p int) I
}

// IndexedColumn binds values[p] to index[p] for every position p.
type IndexedColumn[V, I cmp.Ordered] struct {
	values []V
	index  []I
}

var _ Source[float64, int] = (*IndexedColumn[float64, int])(nil)

// New creates an IndexedColumn. The column takes ownership of both slices.
// Labels need not be unique or sorted.
func New[V, I cmp.Ordered](values []V, index []I) (*IndexedColumn[V, I], error) {
	if len(values) != len(index) {
		return nil, &ErrLengthMismatch{Expected: len(values), Actual: len(index)}
	}
	return &IndexedColumn[V, I]{values: values, index: index}, nil
}

// FromValues creates an IndexedColumn labelled 0..n-1.
func FromValues[V cmp.Ordered](values []V) *IndexedColumn[V, int] {
	return &IndexedColumn[V, int]{values: values, index: RangeIndex(len(values))}
}

// RangeIndex returns the labels 0..n-1.
func RangeIndex(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// Len returns the number of positions.
func (c *IndexedColumn[V, I]) Len() int { return len(c.values) }

// Value returns the value at position p.
func (c *IndexedColumn[V, I]) Value(p int) V { return c.values[p] }

// Label returns the index label at position p.
func (c *IndexedColumn[V, I]) Label(p int) I { return c.index[p] }

// Values returns the backing value slice. Callers must not modify it.
func (c *IndexedColumn[V, I]) Values() []V { return c.values }

// Index returns the backing label slice. Callers must not modify it.
func (c *IndexedColumn[V, I]) Index() []I { return c.index }

// Take materializes src reordered by perm: result[j] = src[perm[j]].
// perm must hold positions valid for src; it may be shorter than src (selection).
func Take[V, I cmp.Ordered](src Source[V, I], perm Permutation) *IndexedColumn[V, I] {
	values := make([]V, len(perm))
	index := make([]I, len(perm))
	for j, p := range perm {
		values[j] = src.Value(p)
		index[j] = src.Label(p)
	}
	return &IndexedColumn[V, I]{values: values, index: index}
}

// Materialize copies any source into a fresh IndexedColumn in source order.
func Materialize[V, I cmp.Ordered](src Source[V, I]) *IndexedColumn[V, I] {
	return Take(src, Identity(src.Len()))
}

// Values copies the values of src in order.
func Values[V, I cmp.Ordered](src Source[V, I]) []V {
	out := make([]V, src.Len())
	for p := range out {
		out[p] = src.Value(p)
	}
	return out
}

// Labels copies the labels of src in order.
func Labels[V, I cmp.Ordered](src Source[V, I]) []I {
	out := make([]I, src.Len())
	for p := range out {
		out[p] = src.Label(p)
	}
	return out
}
