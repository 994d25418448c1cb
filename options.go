package tombset

import (
	"github.com/VictoriaMetrics/metrics"
	"github.com/rs/zerolog"
)

type Option func(ss *SortedSet)

// WithCapacity sets the number of slots for NewFromValues, leaving room for
// inserts on top of the seed. New ignores it.
func WithCapacity(capacity int) Option {
	return func(ss *SortedSet) {
		ss.capacity = capacity
	}
}

// WithQueueSize sets how many accepted values can wait for the drainer.
// Defaults to 100.
func WithQueueSize(size int) Option {
	return func(ss *SortedSet) {
		ss.queueSize = size
	}
}

// WithBatchLimit caps how many staged values one drain pass applies while
// holding the exclusive gate. Defaults to the queue size.
func WithBatchLimit(limit int) Option {
	return func(ss *SortedSet) {
		ss.batchLimit = limit
	}
}

// WithLogger sets the logger, which is a no-op logger by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(ss *SortedSet) {
		ss.logger = logger
	}
}

// WithMetricsSet registers the set's metrics in ms instead of a private
// metrics.Set.
func WithMetricsSet(ms *metrics.Set) Option {
	return func(ss *SortedSet) {
		ss.metricsSet = ms
	}
}

// WithName labels logs and metrics. Sets registered in the same
// metrics.Set should have distinct names: counters of sets sharing a name
// are summed, while their gauges report only the first one.
func WithName(name string) Option {
	return func(ss *SortedSet) {
		ss.name = name
	}
}
