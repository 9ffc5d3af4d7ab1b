// Package ring turns a storage.Slab's raw slot arithmetic into ordered,
// time-bounded reads. It is the one place that understands wraparound: a
// slab's ring can hold at most slot_count slots of history, so a range
// request wider than that window only ever sees the newest slot_count
// worth of points, oldest discarded first.
package ring

import (
	"math"

	"github.com/rondohq/rondo/pkg/storage"
)

// Point is one (timestamp, value) pair read back from a slab.
type Point struct {
	Timestamp uint64
	Value     float64
}

// ReadRange returns every point for column whose on-disk timestamp falls
// in [start, end] (both ends inclusive), in ascending timestamp order. It
// walks at most slab.SlotCount() slots regardless of how wide [start, end]
// is, since that's the most the ring can ever hold.
//
// A slot's stored timestamp is always re-checked against [start, end]:
// wraparound means a slot's current contents may belong to a completely
// different, more recent window than the one the caller asked about, and
// re-checking is what tells a genuinely-in-range point apart from stale
// data that happens to still occupy the slot the naive slot-arithmetic
// would have pointed at.
func ReadRange(slab *storage.Slab, column uint32, start, end uint64) []Point {
	if end < start {
		return nil
	}
	slotCount := slab.SlotCount()

	points := make([]Point, 0, slotCount)
	for slot := uint32(0); slot < slotCount; slot++ {
		ts := slab.TimestampAt(slot)
		if ts < start || ts > end {
			continue
		}
		v := slab.ValueAt(column, slot)
		if math.IsNaN(v) {
			continue
		}
		points = append(points, Point{Timestamp: ts, Value: v})
	}
	sortByTimestamp(points)
	return points
}

// sortByTimestamp is a small insertion sort: ranges are bounded by
// slot_count, which in practice is small enough (hundreds to low
// thousands) that this beats pulling in sort.Slice's reflection overhead
// for what's already a near-sorted walk of the ring.
func sortByTimestamp(points []Point) {
	for i := 1; i < len(points); i++ {
		for j := i; j > 0 && points[j-1].Timestamp > points[j].Timestamp; j-- {
			points[j-1], points[j] = points[j], points[j-1]
		}
	}
}

// Latest returns the most recently written point for column, or ok=false
// if the slot the write cursor points at is NaN (nothing written yet).
func Latest(slab *storage.Slab, column uint32) (Point, bool) {
	slot := slab.WriteCursor()
	v := slab.ValueAt(column, slot)
	if math.IsNaN(v) {
		return Point{}, false
	}
	return Point{Timestamp: slab.TimestampAt(slot), Value: v}, true
}
