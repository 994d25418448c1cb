package tombset

import (
	"context"
	"strconv"
	"sync/atomic"
	"testing"
)

var sizes = []int{
	// 1 << 16,
	1 << 10,
	1 << 14,
}

func BenchmarkMember_Miss(b *testing.B) {
	b.Run("variant=stdMap", benchSimulateLoad(benchmarkStdMapMemberMiss))
	b.Run("variant=sortedSet", benchSimulateLoad(benchmarkSortedSetMemberMiss))
}

func BenchmarkMember_Hit(b *testing.B) {
	b.Run("variant=stdMap", benchSimulateLoad(benchmarkStdMapMemberHit))
	b.Run("variant=sortedSet", benchSimulateLoad(benchmarkSortedSetMemberHit))
}

func BenchmarkMember_Tombstones(b *testing.B) {
	b.Run("variant=sortedSet", benchSimulateLoad(benchmarkSortedSetMemberTombstones))
}

func BenchmarkInsertDelete(b *testing.B) {
	b.Run("variant=sortedSet", benchSimulateLoad(benchmarkSortedSetInsertDelete))
}

func BenchmarkInsertDelete_Parallel(b *testing.B) {
	b.Run("variant=sortedSet", benchSimulateLoad(benchmarkSortedSetInsertDeleteParallel))
}

func benchmarkStdMapMemberMiss(b *testing.B, capacity int) {
	m := make(map[int64]struct{}, capacity)
	for _, k := range genKeys(0, capacity) {
		m[k] = struct{}{}
	}
	misses := genKeys(-capacity, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m[misses[i%len(misses)]]
	}
}

func benchmarkSortedSetMemberMiss(b *testing.B, capacity int) {
	ss := NewFromValues(genKeys(0, capacity))
	misses := genKeys(-capacity, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ss.Member(misses[i%len(misses)])
	}
}

func benchmarkStdMapMemberHit(b *testing.B, capacity int) {
	keys := genKeys(0, capacity)
	m := make(map[int64]struct{}, capacity)
	for _, k := range keys {
		m[k] = struct{}{}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m[keys[i%len(keys)]]
	}
}

func benchmarkSortedSetMemberHit(b *testing.B, capacity int) {
	keys := genKeys(0, capacity)
	ss := NewFromValues(keys)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ss.Member(keys[i%len(keys)])
	}
}

// Every other value is deleted, so half of the midpoints are tombstones.
func benchmarkSortedSetMemberTombstones(b *testing.B, capacity int) {
	keys := genKeys(0, capacity)
	ss := NewFromValues(keys)
	for i := 0; i < len(keys); i += 2 {
		ss.Delete(keys[i])
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ss.Member(keys[i%len(keys)])
	}
}

func benchmarkSortedSetInsertDelete(b *testing.B, capacity int) {
	keys := genKeys(0, capacity-1)
	ss := NewFromValues(keys, WithCapacity(capacity))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v := int64(capacity + i)
		_, _ = ss.Insert(ctx, v)
		ss.Delete(v)
	}
}

func benchmarkSortedSetInsertDeleteParallel(b *testing.B, capacity int) {
	keys := genKeys(0, capacity/2)
	ss := NewFromValues(keys, WithCapacity(capacity))
	ctx := context.Background()

	var next atomic.Int64
	next.Store(int64(capacity))

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			v := next.Add(1)

			// A deferred value has to be visible before it can be deleted,
			// otherwise the set fills up
			if outcome, _ := ss.Insert(ctx, v); outcome == Deferred {
				ss.Flush()
			}
			ss.Delete(v)
		}
	})
}

func genKeys(start, end int) []int64 {
	keys := make([]int64, end-start)
	for i := range keys {
		keys[i] = int64(start + i)
	}

	return keys
}

func benchSimulateLoad(benchFunc func(b *testing.B, capacity int)) func(b *testing.B) {
	return func(b *testing.B) {
		for _, size := range sizes {
			b.Run("capacity="+strconv.Itoa(size), func(b *testing.B) {
				benchFunc(b, size)
			})
		}
	}
}
