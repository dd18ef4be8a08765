// Package colsort provides stable ordering and order statistics over indexed
// columnar data.
//
// A column binds every value to an index label. Colsort sorts columns and
// tables by value or by label, and selects the k largest or smallest elements
// under an explicit tie-break policy, always moving labels (and sibling table
// columns) together with their values.
//
//   - Stable merge-sort ranking; equal values keep input order in both directions
//   - Top-k / bottom-k with keep="first" or keep="last" tie resolution
//   - Slice views (start:stop:step, negatives count from the end) and
//     roaring-bitmap mask views
//   - Optional parallel ranking bounded by a resource.Controller
//   - Table snapshots on local disk, S3 or MinIO (see package snapshot)
//
// # Quick Start
//
//	ctx := context.Background()
//	e := colsort.New[float64, int]()
//
//	col := column.FromValues([]float64{0, 1, 1, 2, 2, 2, 3, 3})
//	top, _ := e.NLargest(ctx, col, 3, topk.KeepFirst)
//	fmt.Println(top.Values(), top.Index()) // [3 3 2] [6 7 3]
//
//	perm, _ := e.Argsort(ctx, col, colsort.Descending)
//	sorted, _, _ := e.SortValues(ctx, col, colsort.Ascending)
//
// Keep policies usually come from user input:
//
//	keep, err := topk.ParseKeep("last")
//	if err != nil {
//	    // errors.Is(err, colsort.ErrInvalidArgument) == true
//	}
//
// # Tables
//
// A Table holds equal-length columns sharing one index. Sorting or selecting
// by one column applies the same permutation to all of them:
//
//	t := column.NewTable[float64](column.RangeIndex(4))
//	_ = t.AddColumn("a", []float64{5, 3, 3, 1})
//	_ = t.AddColumn("b", []float64{1, 2, 3, 4})
//	sorted, _ := e.SortTable(ctx, t, "a", colsort.Ascending)
//
// # Views
//
// column.Restrict and column.RestrictTable slice a column or table without
// copying; column.Mask selects positions from a roaring bitmap. Every engine
// operation accepts a view in place of the data it restricts, and reported
// labels are those of the underlying data.
//
// # NaN Values
//
// NaN values compare equal to each other and are placed last in both
// directions unless WithNullPlacement(NullsFirst) is given.
//
// # Concurrency
//
// Engine methods are stateless and safe for concurrent use. With
// WithParallelism(n), columns longer than the parallel threshold are ranked
// by n goroutines; the result is identical to the sequential rank and a
// cancelled context aborts the rank with ctx.Err().
package colsort
