package tombset

// search returns the slot holding v, or -1.
//
// It's a binary search that steps around tombstones: when the midpoint is a
// tombstone, the nearest live neighbours inside the window decide which half
// to keep. A window made only of tombstones ends the search.
//
// Safe under the shared gate. A concurrent tombstone write can only make a
// probe see a value as gone, it never moves live values.
func (s *slots) search(v int64) int {
	lo, hi := 0, s.len()-1

	for lo <= hi {
		mid := lo + (hi-lo)/2

		mv := s.load(mid)
		if mv != Tombstone {
			switch {
			case mv == v:
				return mid
			case mv < v:
				lo = mid + 1
			default:
				hi = mid - 1
			}

			continue
		}

		l, lv := s.probe(mid-1, lo, -1)
		r, rv := s.probe(mid+1, hi, 1)

		if l < 0 && r < 0 {
			return -1
		}

		if l >= 0 {
			if lv == v {
				return l
			}
			if v < lv {
				hi = l - 1
				continue
			}
		}

		if r >= 0 {
			if rv == v {
				return r
			}
			if v > rv {
				lo = r + 1
				continue
			}
		}

		// v falls in the gap between the neighbours
		return -1
	}

	return -1
}

// probe walks from i towards bound (inclusive) in steps of dir and returns
// the first live slot with its value, or -1.
func (s *slots) probe(i, bound, dir int) (int, int64) {
	for ; (dir < 0 && i >= bound) || (dir > 0 && i <= bound); i += dir {
		if v := s.load(i); v != Tombstone {
			return i, v
		}
	}

	return -1, Tombstone
}
