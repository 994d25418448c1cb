package tombset

import (
	"sync/atomic"
	"unsafe"
)

// Estimates capacity (number of slots) from the given memory size in bytes.
func CapacityFromSize(size uintptr) int {
	return int(size / unsafe.Sizeof(atomic.Int64{}))
}
