package tombset

type Stats struct {
	Capacity   int
	Live       int
	Tombstones int
	Pending    int
	Available  int

	TombstonesCapacityRatio float32
}
