package column

import (
	"cmp"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// TableSource is the row-set interface table operations consume: a Table or a
// row view of one.
type TableSource[V, I cmp.Ordered] interface {
	Len() int
	Names() []string
	Column(name string) (Source[V, I], error)
	Label(p int) I
	// Take reorders (or selects) rows: every column and the index move together.
	Take(perm Permutation) *Table[V, I]
}

// Table is a set of equal-length value columns sharing one index.
type Table[V, I cmp.Ordered] struct {
	names   []string
	columns map[string][]V
	index   []I
}

var _ TableSource[float64, int] = (*Table[float64, int])(nil)

// NewTable creates an empty table over the given index.
func NewTable[V, I cmp.Ordered](index []I) *Table[V, I] {
	return &Table[V, I]{
		columns: make(map[string][]V),
		index:   index,
	}
}

// AddColumn appends a named column. Its length must equal the index length and
// the name must be new.
func (t *Table[V, I]) AddColumn(name string, values []V) error {
	if _, ok := t.columns[name]; ok {
		return invalidArgument("duplicate column %q", name)
	}
	if len(values) != len(t.index) {
		return &ErrLengthMismatch{Name: name, Expected: len(t.index), Actual: len(values)}
	}
	t.names = append(t.names, name)
	t.columns[name] = values
	return nil
}

// Len returns the number of rows.
func (t *Table[V, I]) Len() int { return len(t.index) }

// Names returns the column names in insertion order.
func (t *Table[V, I]) Names() []string { return slices.Clone(t.names) }

// Index returns the shared label slice. Callers must not modify it.
func (t *Table[V, I]) Index() []I { return t.index }

// Label returns the label of row p.
func (t *Table[V, I]) Label(p int) I { return t.index[p] }

// Values returns the backing slice of a column. Callers must not modify it.
func (t *Table[V, I]) Values(name string) ([]V, error) {
	values, ok := t.columns[name]
	if !ok {
		return nil, &ErrUnknownColumn{Name: name}
	}
	return values, nil
}

// Column returns the named column bound to the shared index.
func (t *Table[V, I]) Column(name string) (Source[V, I], error) {
	values, ok := t.columns[name]
	if !ok {
		return nil, &ErrUnknownColumn{Name: name}
	}
	return &IndexedColumn[V, I]{values: values, index: t.index}, nil
}

// Take applies perm to every column and to the index.
func (t *Table[V, I]) Take(perm Permutation) *Table[V, I] {
	return t.takeRows(func(j int) int { return perm[j] }, len(perm))
}

func (t *Table[V, I]) takeRows(row func(j int) int, n int) *Table[V, I] {
	out := &Table[V, I]{
		names:   slices.Clone(t.names),
		columns: make(map[string][]V, len(t.columns)),
		index:   make([]I, n),
	}
	for j := range n {
		out.index[j] = t.index[row(j)]
	}
	for _, name := range t.names {
		src := t.columns[name]
		dst := make([]V, n)
		for j := range n {
			dst[j] = src[row(j)]
		}
		out.columns[name] = dst
	}
	return out
}

// TableView is a read-only row restriction of a Table.
type TableView[V, I cmp.Ordered] struct {
	table     *Table[V, I]
	positions []int
}

var _ TableSource[float64, int] = (*TableView[float64, int])(nil)

// RestrictTable returns the row view t[start:stop:step]; see Restrict.
func RestrictTable[V, I cmp.Ordered](t *Table[V, I], start, stop, step int) (*TableView[V, I], error) {
	if step == 0 {
		return nil, invalidArgument("slice step cannot be zero")
	}
	return &TableView[V, I]{table: t, positions: slicePositions(t.Len(), start, stop, step)}, nil
}

// MaskTable returns the row view of the rows set in bm; see Mask.
func MaskTable[V, I cmp.Ordered](t *Table[V, I], bm *roaring.Bitmap) *TableView[V, I] {
	return &TableView[V, I]{table: t, positions: maskPositions(t.Len(), bm)}
}

// Len returns the number of rows in the view.
func (v *TableView[V, I]) Len() int { return len(v.positions) }

// Names returns the column names of the underlying table.
func (v *TableView[V, I]) Names() []string { return v.table.Names() }

// Label returns the table label of view row p.
func (v *TableView[V, I]) Label(p int) I { return v.table.index[v.positions[p]] }

// Positions returns the table rows covered by the view. Callers must not modify it.
func (v *TableView[V, I]) Positions() []int { return v.positions }

// Column returns the named column restricted to the view rows.
func (v *TableView[V, I]) Column(name string) (Source[V, I], error) {
	col, err := v.table.Column(name)
	if err != nil {
		return nil, err
	}
	return &View[V, I]{root: col, positions: v.positions}, nil
}

// Take applies perm (local to the view) to every column and the index.
func (v *TableView[V, I]) Take(perm Permutation) *Table[V, I] {
	return v.table.takeRows(func(j int) int { return v.positions[perm[j]] }, len(perm))
}

// Materialize copies the view rows into a fresh Table.
func (v *TableView[V, I]) Materialize() *Table[V, I] {
	return v.Take(Identity(v.Len()))
}
