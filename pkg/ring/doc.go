/*
Package ring reads time-bounded, ordered point sequences out of a
storage.Slab.

A slab's slot arithmetic (slot = (ts / interval) % slot_count) tells a
writer where to put a point, but by itself it doesn't tell a reader which
slots currently hold data inside a given [start, end] window — after
enough wraparounds, a slot that arithmetic would map to for an old
timestamp may already hold a much newer point. ReadRange resolves that by
trusting the timestamp actually stored in each slot over where naive
arithmetic says it should be, and scans the whole ring rather than trying
to shortcut to a subrange.

# Usage

	points := ring.ReadRange(slab, column, windowStart, windowEnd)
	for _, p := range points {
		fmt.Println(p.Timestamp, p.Value)
	}

	latest, ok := ring.Latest(slab, column)
*/
package ring
