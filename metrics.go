package metrigo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordSplit is called after each bucket split.
	// objects is the number of objects matched, partitions the partition
	// count of the policy, duration the total time taken, err nil on
	// success.
	RecordSplit(objects, partitions int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSplit(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SplitCount      atomic.Int64
	SplitErrors     atomic.Int64
	SplitObjects    atomic.Int64
	SplitTotalNanos atomic.Int64
}

// RecordSplit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSplit(objects, partitions int, duration time.Duration, err error) {
	b.SplitCount.Add(1)
	b.SplitObjects.Add(int64(objects))
	b.SplitTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SplitErrors.Add(1)
	}
}
