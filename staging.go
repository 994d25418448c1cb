package tombset

import (
	"context"
	"sync/atomic"
)

const defaultQueueSize = 100

// staging buffers accepted values until the drain owner merges them.
// Producers block while it's full, nothing is ever dropped.
type staging struct {
	ch chan int64

	// pending is bumped after a value lands in ch, so a drainer that sees
	// zero here can't have missed a value whose producer lost the
	// ownership race against it
	pending atomic.Int64

	// popped counts every value ever taken out
	popped atomic.Int64
}

func newStaging(size int) *staging {
	return &staging{ch: make(chan int64, size)}
}

// put enqueues v, blocking while the queue is full or until ctx is done.
func (q *staging) put(ctx context.Context, v int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case q.ch <- v:
		q.pending.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pop takes the oldest value without blocking.
func (q *staging) pop() (int64, bool) {
	select {
	case v := <-q.ch:
		q.popped.Add(1)
		q.pending.Add(-1)
		return v, true
	default:
		return 0, false
	}
}

// len may briefly lag behind the channel while a put or pop is in flight.
func (q *staging) len() int {
	return int(max(q.pending.Load(), 0))
}

func (q *staging) cap() int {
	return cap(q.ch)
}

// horizon returns the pop count at which everything queued right now has
// been taken out. The caller must keep pop from running concurrently.
func (q *staging) horizon() int64 {
	return q.popped.Load() + int64(len(q.ch))
}

// reached reports whether the queue has been popped up to h.
func (q *staging) reached(h int64) bool {
	return q.popped.Load() >= h
}
