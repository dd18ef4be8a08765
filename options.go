package colsort

import (
	"log/slog"

	"github.com/hupe1980/colsort/internal/order"
	"github.com/hupe1980/colsort/resource"
)

type options struct {
	metricsCollector  MetricsCollector
	logger            *Logger
	parallelism       int
	parallelThreshold int
	controller        *resource.Controller
	nulls             order.Nulls
}

// Option configures an Engine.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &colsort.BasicMetricsCollector{}
//	e := colsort.New[float64, int](colsort.WithMetricsCollector(metrics))
//	// ... use e ...
//	stats := metrics.GetStats()
//	fmt.Printf("Sorts: %d, Avg latency: %dns\n", stats.SortCount, stats.SortAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := colsort.NewJSONLogger(slog.LevelDebug)
//	e := colsort.New[float64, int](colsort.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithParallelism sets how many chunks a large rank is split into.
// n <= 1 keeps every rank sequential (the default).
//
// The result is identical to the sequential rank for any n.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithParallelThreshold sets the minimum column length for the parallel path.
// Values <= 0 select the default of 65536.
func WithParallelThreshold(n int) Option {
	return func(o *options) {
		o.parallelThreshold = n
	}
}

// WithResourceController bounds concurrent sort workers and scratch memory.
// When the controller refuses the scratch buffer, ranks run sequentially.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithNullPlacement places NaN values first or last in every ordering.
// The default is NullsLast, for both directions.
func WithNullPlacement(n NullPlacement) Option {
	return func(o *options) {
		o.nulls = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector:  NoopMetricsCollector{},
		logger:            NoopLogger(),
		parallelism:       1,
		parallelThreshold: order.DefaultParallelThreshold,
		nulls:             order.NullsLast,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
