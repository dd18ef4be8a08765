package colsort

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    sortCounter   prometheus.Counter
//	    sortHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordSort(n int, duration time.Duration, err error) {
//	    p.sortCounter.Inc()
//	    p.sortHistogram.Observe(duration.Seconds())
//	}
type MetricsCollector interface {
	// RecordSort is called after each argsort, value sort or index sort.
	// n is the number of positions ranked, err is nil if successful.
	RecordSort(n int, duration time.Duration, err error)

	// RecordTopK is called after each top-k selection.
	// k is the requested selection size, n the number of candidates.
	RecordTopK(k, n int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSort(int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordTopK(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SortCount      atomic.Int64
	SortErrors     atomic.Int64
	SortElements   atomic.Int64
	SortTotalNanos atomic.Int64
	TopKCount      atomic.Int64
	TopKErrors     atomic.Int64
	TopKSelected   atomic.Int64
	TopKTotalNanos atomic.Int64
}

// RecordSort implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSort(n int, duration time.Duration, err error) {
	b.SortCount.Add(1)
	b.SortTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SortErrors.Add(1)
		return
	}
	b.SortElements.Add(int64(n))
}

// RecordTopK implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTopK(k, n int, duration time.Duration, err error) {
	b.TopKCount.Add(1)
	b.TopKTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.TopKErrors.Add(1)
		return
	}
	b.TopKSelected.Add(int64(min(k, n)))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SortCount:    b.SortCount.Load(),
		SortErrors:   b.SortErrors.Load(),
		SortElements: b.SortElements.Load(),
		SortAvgNanos: avgNanos(b.SortTotalNanos.Load(), b.SortCount.Load()),
		TopKCount:    b.TopKCount.Load(),
		TopKErrors:   b.TopKErrors.Load(),
		TopKSelected: b.TopKSelected.Load(),
		TopKAvgNanos: avgNanos(b.TopKTotalNanos.Load(), b.TopKCount.Load()),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SortCount    int64
	SortErrors   int64
	SortElements int64
	SortAvgNanos int64
	TopKCount    int64
	TopKErrors   int64
	TopKSelected int64
	TopKAvgNanos int64
}
