// Package tombset implements a fixed-capacity sorted set of integers that is
// safe for concurrent use.
//
// Values live in a single array that never grows. Deletes leave tombstones
// behind, which later inserts and Cleanup compact away. Inserts are accepted
// into a staging queue and merged into the array by whichever caller wins
// the drain ownership, so an Insert that returns Deferred may not be visible
// to Member or Delete until the drain catches up (see Flush).
package tombset

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Outcome tells how an Insert ended.
type Outcome uint8

const (
	// Rejected: the value was not accepted, nothing is held on its behalf.
	Rejected Outcome = iota
	// Applied: the calling goroutine ran at least one drain pass. The value
	// is visible unless another goroutine took the drain over before its
	// turn came, in which case that goroutine merges it.
	Applied
	// Deferred: the value is staged and another goroutine will merge it.
	Deferred
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Deferred:
		return "deferred"
	default:
		return "rejected"
	}
}

// SortedSet is a sorted set of int64 with a fixed number of slots.
// The live values plus the values waiting in the staging queue never exceed
// the capacity, an Insert blocks until there's room.
type SortedSet struct {
	capacity   int
	queueSize  int
	batchLimit int
	name       string

	logger     zerolog.Logger
	metricsSet *metrics.Set
	metrics    *instruments

	// gate: exclusive for structural changes (drain, Cleanup), shared for
	// searches and single-slot tombstone writes
	gate  sync.RWMutex
	store slots

	admission *admission
	staging   *staging
	owner     atomic.Bool
}

// New returns an empty set with the given number of slots.
// It panics if capacity is less than 1.
func New(capacity int, opts ...Option) *SortedSet {
	ss := configure(opts)
	ss.capacity = capacity

	return ss.init(nil)
}

// NewFromValues returns a set seeded with values, which must be ascending
// and free of duplicates, this isn't checked. The capacity is len(values)
// unless WithCapacity asks for more.
//
// It panics if the resulting capacity is less than 1 or smaller than the
// seed.
func NewFromValues(values []int64, opts ...Option) *SortedSet {
	ss := configure(opts)

	switch {
	case ss.capacity == 0:
		ss.capacity = len(values)
	case ss.capacity < len(values):
		panic(`tombset: capacity is smaller than the seed`)
	}

	return ss.init(values)
}

func configure(opts []Option) *SortedSet {
	ss := &SortedSet{
		queueSize: defaultQueueSize,
		name:      "default",
		logger:    zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(ss)
	}

	return ss
}

func (ss *SortedSet) init(values []int64) *SortedSet {
	if ss.capacity < 1 {
		panic(`tombset: capacity must be positive`)
	}
	if ss.queueSize < 1 {
		ss.queueSize = defaultQueueSize
	}
	if ss.batchLimit < 1 {
		ss.batchLimit = ss.queueSize
	}

	ss.store.initFrom(ss.capacity, values)
	ss.staging = newStaging(ss.queueSize)
	ss.admission = newAdmission(ss.capacity)
	if !ss.admission.reserve(len(values)) {
		panic(`tombset: seed doesn't fit the capacity`)
	}

	ss.logger = ss.logger.With().Str("set", ss.name).Logger()

	if ss.metricsSet == nil {
		ss.metricsSet = metrics.NewSet()
	}
	ss.metrics = newInstruments(ss.metricsSet, ss)

	return ss
}

// Capacity returns the number of slots.
func (ss *SortedSet) Capacity() int {
	return ss.capacity
}

// Insert adds value to the set.
//
// It blocks while the set is at capacity and while the staging queue is
// full. If ctx ends first, the result is Rejected with an error matching
// ErrAdmissionInterrupted and the context error. Inserting a value that's
// already present is accepted and then dropped by the drainer.
func (ss *SortedSet) Insert(ctx context.Context, value int64) (Outcome, error) {
	if value == Tombstone {
		ss.metrics.inserted(Rejected)
		return Rejected, errors.WithStack(ErrReservedValue)
	}

	if err := ss.admission.acquire(ctx); err != nil {
		ss.metrics.inserted(Rejected)
		ss.logger.Warn().Err(err).Int64("value", value).Msg("insert interrupted waiting for a free slot")

		return Rejected, newInterrupted(err, "waiting for a free slot")
	}

	if err := ss.staging.put(ctx, value); err != nil {
		ss.admission.release()
		ss.metrics.inserted(Rejected)
		ss.logger.Warn().Err(err).Int64("value", value).Msg("insert interrupted waiting for the staging queue")

		return Rejected, newInterrupted(err, "waiting for room in the staging queue")
	}

	outcome := Deferred
	if ss.drain() {
		outcome = Applied
	}
	ss.metrics.inserted(outcome)

	return outcome, nil
}

// Delete tombstones value and reports whether it was live.
// Staged values that haven't been drained yet aren't seen.
func (ss *SortedSet) Delete(value int64) bool {
	if value == Tombstone {
		return false
	}

	ss.gate.RLock()
	defer ss.gate.RUnlock()

	i := ss.store.search(value)
	if i < 0 || !ss.store.mark(i, value) {
		ss.metrics.missed.Inc()
		return false
	}

	ss.admission.release()
	ss.metrics.deleted.Inc()

	return true
}

// Member reports whether value is live.
func (ss *SortedSet) Member(value int64) bool {
	if value == Tombstone {
		return false
	}

	ss.gate.RLock()
	defer ss.gate.RUnlock()

	return ss.store.search(value) >= 0
}

// Cleanup moves every tombstone to the low end of the array.
func (ss *SortedSet) Cleanup() {
	ss.gate.Lock()
	defer ss.gate.Unlock()

	ss.store.compact(ss.store.len() - 1)
	ss.metrics.cleanups.Inc()

	ss.logger.Debug().Msg("compacted")
}

// Snapshot returns a copy of the slot array, tombstones included.
func (ss *SortedSet) Snapshot() []int64 {
	ss.gate.RLock()
	defer ss.gate.RUnlock()

	return ss.store.snapshot()
}

// Values returns the live values in ascending order.
func (ss *SortedSet) Values() []int64 {
	return lo.Filter(ss.Snapshot(), func(v int64, _ int) bool {
		return v != Tombstone
	})
}

// Stats returns the current occupancy of the set.
func (ss *SortedSet) Stats() Stats {
	ss.gate.RLock()
	live, tombstones := ss.store.count()
	ss.gate.RUnlock()

	return Stats{
		Capacity:                ss.capacity,
		Live:                    live,
		Tombstones:              tombstones,
		Pending:                 ss.staging.len(),
		Available:               ss.admission.available(),
		TombstonesCapacityRatio: float32(tombstones) / float32(ss.capacity),
	}
}
