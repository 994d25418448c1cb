package tombset

import "runtime"

// drain merges staged values for as long as this goroutine wins ownership
// and the queue isn't empty. It reports whether at least one pass ran.
//
// Losing the race is fine: the owner re-checks the queue after giving up
// ownership, so a value staged by a loser is never left behind.
func (ss *SortedSet) drain() bool {
	drained := false

	for ss.owner.CompareAndSwap(false, true) {
		ss.drainOnce()
		drained = true

		if ss.staging.len() == 0 {
			break
		}
	}

	return drained
}

func (ss *SortedSet) drainOnce() {
	defer ss.owner.Store(false)

	ss.gate.Lock()
	defer ss.gate.Unlock()

	var (
		popped     int
		applied    int
		duplicates int
	)

	for popped < ss.batchLimit {
		v, ok := ss.staging.pop()
		if !ok {
			break
		}
		popped++

		// The value never becomes live, so its permit goes back
		if ss.store.search(v) >= 0 {
			duplicates++
			ss.admission.release()

			continue
		}

		if ss.store.insert(v) < 0 {
			ss.logger.Error().Int64("value", v).Msg("no free slot for an admitted value")
			ss.admission.release()

			continue
		}
		applied++
	}

	ss.metrics.drains.Inc()
	ss.metrics.batch.Update(float64(popped))
	ss.metrics.duplicates.Add(duplicates)

	ss.logger.Debug().
		Int("popped", popped).
		Int("applied", applied).
		Int("duplicates", duplicates).
		Msg("drained staging queue")
}

// Flush returns once every value staged before the call is visible. Values
// staged while it waits aren't waited for.
func (ss *SortedSet) Flush() {
	h := ss.flushHorizon()

	for !ss.flushed(h) {
		if !ss.drain() {
			runtime.Gosched()
		}
	}
}

// Pops only happen in a drain pass, under the exclusive gate, and the pass
// merges what it popped before letting go. Under the shared gate the pop
// count is therefore stable and everything counted by it is visible.

func (ss *SortedSet) flushHorizon() int64 {
	ss.gate.RLock()
	defer ss.gate.RUnlock()

	return ss.staging.horizon()
}

func (ss *SortedSet) flushed(h int64) bool {
	ss.gate.RLock()
	defer ss.gate.RUnlock()

	return ss.staging.reached(h)
}
