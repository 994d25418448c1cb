package tombset

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// admission bounds live plus staged values to the set capacity.
// One permit is one free slot. Waiters are served in arrival order.
type admission struct {
	sem      *semaphore.Weighted
	capacity int64

	// held mirrors the semaphore, which doesn't expose its count
	held atomic.Int64
}

func newAdmission(capacity int) *admission {
	return &admission{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: int64(capacity),
	}
}

// acquire blocks until a permit is free or ctx is done.
func (a *admission) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := a.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	a.held.Add(1)

	return nil
}

// reserve takes n permits without blocking, used for seeded values.
func (a *admission) reserve(n int) bool {
	if n == 0 {
		return true
	}

	if !a.sem.TryAcquire(int64(n)) {
		return false
	}

	a.held.Add(int64(n))

	return true
}

func (a *admission) release() {
	a.held.Add(-1)
	a.sem.Release(1)
}

// available returns the number of free permits.
func (a *admission) available() int {
	return int(a.capacity - a.held.Load())
}
