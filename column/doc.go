// Package column defines the indexed columnar data model ordered by colsort.
//
// # Types
//
//   - IndexedColumn: a value sequence bound 1:1 to index labels
//   - Table: equal-length value columns sharing one index
//   - Permutation: output position -> source position mapping
//   - View / TableView: read-only restrictions (slice or bitmap mask) of a column or table
//
// Every reordering goes through a Permutation so values, labels and sibling
// columns always move together:
//
//	col, _ := column.New([]float64{5, 3, 3, 1}, []int{10, 11, 12, 13})
//	v, _ := column.Restrict[float64, int](col, 1, 4, 1) // positions 1..3
//	sorted := column.Take[float64, int](v, column.Permutation{2, 0, 1})
//
// Views resolve positions against their root column, so labels are always the
// labels of the underlying data, never view-local positions.
package column
