package colsort

import (
	"cmp"
	"context"
	"time"

	"github.com/hupe1980/colsort/column"
	"github.com/hupe1980/colsort/internal/order"
	"github.com/hupe1980/colsort/topk"
)

// Direction is the primary ordering of a sort.
type Direction = order.Direction

const (
	// Ascending orders values non-decreasing.
	Ascending = order.Ascending
	// Descending orders values non-increasing. Equal values still keep
	// ascending input position.
	Descending = order.Descending
)

// NullPlacement places NaN values in an ordering.
type NullPlacement = order.Nulls

const (
	// NullsLast places NaN values after all other values in both directions.
	NullsLast = order.NullsLast
	// NullsFirst places NaN values before all other values in both directions.
	NullsFirst = order.NullsFirst
)

// Engine sorts and selects over indexed columns and tables.
//
// An Engine is immutable after New and safe for concurrent use.
type Engine[V, I cmp.Ordered] struct {
	logger  *Logger
	metrics MetricsCollector
	par     order.Parallel
	nulls   order.Nulls
}

// New creates an Engine for values of type V labelled with I.
func New[V, I cmp.Ordered](optFns ...Option) *Engine[V, I] {
	o := applyOptions(optFns)
	return &Engine[V, I]{
		logger:  o.logger,
		metrics: o.metricsCollector,
		par: order.Parallel{
			Workers:    o.parallelism,
			Threshold:  o.parallelThreshold,
			Controller: o.controller,
		},
		nulls: o.nulls,
	}
}

// Argsort returns the stable permutation that orders src by value.
// Equal values keep ascending input position in both directions.
func (e *Engine[V, I]) Argsort(ctx context.Context, src column.Source[V, I], dir Direction) (column.Permutation, error) {
	start := time.Now()
	perm, err := e.rankValues(ctx, src, dir)
	err = translateError("argsort", err)
	e.observeSort(ctx, "argsort", src.Len(), start, err)
	if err != nil {
		return nil, err
	}
	return perm, nil
}

// SortValues returns src reordered by value together with the permutation applied.
// Labels travel with their values.
func (e *Engine[V, I]) SortValues(ctx context.Context, src column.Source[V, I], dir Direction) (*column.IndexedColumn[V, I], column.Permutation, error) {
	start := time.Now()
	perm, err := e.rankValues(ctx, src, dir)
	err = translateError("sort_values", err)
	e.observeSort(ctx, "sort_values", src.Len(), start, err)
	if err != nil {
		return nil, nil, err
	}
	return column.Take(src, perm), perm, nil
}

// SortIndex returns src reordered by label. Values travel with their labels.
//
// With unique labels, SortIndex(Ascending) after any SortValues restores the
// original pairing order of a column whose labels were ascending.
func (e *Engine[V, I]) SortIndex(ctx context.Context, src column.Source[V, I], dir Direction) (*column.IndexedColumn[V, I], error) {
	start := time.Now()
	perm, err := e.rankLabels(ctx, column.Labels(src), dir)
	err = translateError("sort_index", err)
	e.observeSort(ctx, "sort_index", src.Len(), start, err)
	if err != nil {
		return nil, err
	}
	return column.Take(src, perm), nil
}

// NLargest returns the k largest values of src, ordered largest first.
// keep decides which members of a tie group at the cutoff survive.
func (e *Engine[V, I]) NLargest(ctx context.Context, src column.Source[V, I], k int, keep topk.Keep) (*column.IndexedColumn[V, I], error) {
	return e.TopK(ctx, src, topk.Options{K: k, Extreme: topk.Largest, Keep: keep})
}

// NSmallest returns the k smallest values of src, ordered smallest first.
func (e *Engine[V, I]) NSmallest(ctx context.Context, src column.Source[V, I], k int, keep topk.Keep) (*column.IndexedColumn[V, I], error) {
	return e.TopK(ctx, src, topk.Options{K: k, Extreme: topk.Smallest, Keep: keep})
}

// TopK selects opts.K elements of src. Options are validated before any work;
// k >= src.Len() returns the whole ranked column and k == 0 an empty one.
func (e *Engine[V, I]) TopK(ctx context.Context, src column.Source[V, I], opts topk.Options) (*column.IndexedColumn[V, I], error) {
	start := time.Now()
	perm, err := e.selectTopK(ctx, src, opts)
	err = translateError("topk", err)
	e.observeTopK(ctx, opts.K, src.Len(), start, err)
	if err != nil {
		return nil, err
	}
	return column.Take(src, perm), nil
}

// SortTable reorders every column and the index of t by the values of column by.
func (e *Engine[V, I]) SortTable(ctx context.Context, t column.TableSource[V, I], by string, dir Direction) (*column.Table[V, I], error) {
	start := time.Now()
	perm, err := e.rankTableColumn(ctx, t, by, dir)
	err = translateError("sort_table", err)
	e.observeSort(ctx, "sort_table", t.Len(), start, err)
	if err != nil {
		return nil, err
	}
	return t.Take(perm), nil
}

// SortTableIndex reorders every column of t by the index labels.
func (e *Engine[V, I]) SortTableIndex(ctx context.Context, t column.TableSource[V, I], dir Direction) (*column.Table[V, I], error) {
	start := time.Now()
	labels := make([]I, t.Len())
	for p := range labels {
		labels[p] = t.Label(p)
	}
	perm, err := e.rankLabels(ctx, labels, dir)
	err = translateError("sort_table_index", err)
	e.observeSort(ctx, "sort_table_index", t.Len(), start, err)
	if err != nil {
		return nil, err
	}
	return t.Take(perm), nil
}

// NLargestTable returns the k rows of t with the largest values in column by.
func (e *Engine[V, I]) NLargestTable(ctx context.Context, t column.TableSource[V, I], by string, k int, keep topk.Keep) (*column.Table[V, I], error) {
	return e.topKTable(ctx, t, by, topk.Options{K: k, Extreme: topk.Largest, Keep: keep})
}

// NSmallestTable returns the k rows of t with the smallest values in column by.
func (e *Engine[V, I]) NSmallestTable(ctx context.Context, t column.TableSource[V, I], by string, k int, keep topk.Keep) (*column.Table[V, I], error) {
	return e.topKTable(ctx, t, by, topk.Options{K: k, Extreme: topk.Smallest, Keep: keep})
}

func (e *Engine[V, I]) topKTable(ctx context.Context, t column.TableSource[V, I], by string, opts topk.Options) (*column.Table[V, I], error) {
	start := time.Now()
	var perm column.Permutation
	col, err := t.Column(by)
	if err == nil {
		perm, err = e.selectTopK(ctx, col, opts)
	}
	err = translateError("topk_table", err)
	e.observeTopK(ctx, opts.K, t.Len(), start, err)
	if err != nil {
		return nil, err
	}
	return t.Take(perm), nil
}

func (e *Engine[V, I]) rankValues(ctx context.Context, src column.Source[V, I], dir Direction) (column.Permutation, error) {
	if err := validateDirection(dir); err != nil {
		return nil, err
	}
	return order.RankParallel(ctx, column.Values(src), e.config(dir), e.par)
}

func (e *Engine[V, I]) rankLabels(ctx context.Context, labels []I, dir Direction) (column.Permutation, error) {
	if err := validateDirection(dir); err != nil {
		return nil, err
	}
	return order.RankParallel(ctx, labels, e.config(dir), e.par)
}

func (e *Engine[V, I]) rankTableColumn(ctx context.Context, t column.TableSource[V, I], by string, dir Direction) (column.Permutation, error) {
	if err := validateDirection(dir); err != nil {
		return nil, err
	}
	col, err := t.Column(by)
	if err != nil {
		return nil, err
	}
	return e.rankValues(ctx, col, dir)
}

func (e *Engine[V, I]) selectTopK(ctx context.Context, src column.Source[V, I], opts topk.Options) (column.Permutation, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return topk.Select(src, opts, e.nulls)
}

func (e *Engine[V, I]) config(dir Direction) order.Config {
	return order.Config{Direction: dir, Nulls: e.nulls}
}

func (e *Engine[V, I]) observeSort(ctx context.Context, op string, n int, start time.Time, err error) {
	e.metrics.RecordSort(n, time.Since(start), err)
	e.logger.LogSort(ctx, op, n, err)
}

func (e *Engine[V, I]) observeTopK(ctx context.Context, k, n int, start time.Time, err error) {
	e.metrics.RecordTopK(k, n, time.Since(start), err)
	e.logger.LogTopK(ctx, k, n, err)
}
