package tombset

import (
	"math"
	"sync/atomic"
)

// Tombstone marks a slot that holds no live value.
// It can never be inserted.
const Tombstone int64 = math.MinInt64

// slots is the fixed-length backing array of the set.
//
// Live values, read left to right, are strictly ascending. Tombstones can sit
// anywhere, but every structural operation leaves them packed at the low end
// with the live values contiguous at the high end.
//
// Cells are atomics: searches and single-slot tombstone writes run together
// under the shared gate. Everything else needs the exclusive gate.
type slots struct {
	cells []atomic.Int64
}

func (s *slots) init(capacity int) {
	s.cells = make([]atomic.Int64, capacity)
	s.Reset()
}

// initFrom lays the seed out right-aligned, tombstones first.
// The seed is trusted to be ascending and free of duplicates.
func (s *slots) initFrom(capacity int, values []int64) {
	s.init(capacity)

	offset := capacity - len(values)
	for i, v := range values {
		s.cells[offset+i].Store(v)
	}
}

func (s *slots) len() int {
	return len(s.cells)
}

func (s *slots) load(i int) int64 {
	return s.cells[i].Load()
}

func (s *slots) store(i int, v int64) {
	s.cells[i].Store(v)
}

// mark tombstones slot i if it still holds v.
func (s *slots) mark(i int, v int64) bool {
	return s.cells[i].CompareAndSwap(v, Tombstone)
}

// insert places v, which must not be live already, into its sorted position
// and returns that position. It returns -1 if no slot is free.
func (s *slots) insert(v int64) int {
	n := len(s.cells)

	// 1. Slot 0 is the scratch slot, free it up if it's taken
	if s.load(0) != Tombstone {
		s.compact(n - 1)

		if s.load(0) != Tombstone {
			return -1
		}
	}

	// 2. One adjacent-swap pass. The rest of the array is sorted, so v only
	// has to travel past tombstones and smaller values.
	s.store(0, v)

	pos := 0
	for i := 0; i+1 < n; i++ {
		next := s.load(i + 1)
		if next != Tombstone && next > v {
			break
		}

		s.store(i, next)
		s.store(i+1, v)
		pos = i + 1
	}

	// 3. Compact as we go, v is the highest live value in [0, pos]
	s.compact(pos)

	return pos
}

// compact pushes every live value in [0, upTo] to the high end of that
// range, keeping their order, and fills the low end with tombstones.
func (s *slots) compact(upTo int) {
	if upTo <= 0 {
		return
	}
	if upTo >= len(s.cells) {
		upTo = len(s.cells) - 1
	}

	w := upTo
	for r := upTo; r >= 0; r-- {
		if v := s.load(r); v != Tombstone {
			s.store(w, v)
			w--
		}
	}

	for ; w >= 0; w-- {
		s.store(w, Tombstone)
	}
}

func (s *slots) snapshot() []int64 {
	out := make([]int64, len(s.cells))
	for i := range s.cells {
		out[i] = s.cells[i].Load()
	}

	return out
}

// count returns the number of live slots and tombstones.
func (s *slots) count() (live, tombstones int) {
	for i := range s.cells {
		if s.cells[i].Load() == Tombstone {
			tombstones++
		} else {
			live++
		}
	}

	return live, tombstones
}

func (s *slots) Reset() {
	for i := range s.cells {
		s.cells[i].Store(Tombstone)
	}
}
