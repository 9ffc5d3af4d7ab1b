// Package consolidate runs the cascading downsampling sweep that feeds a
// schema's lower-resolution tiers from their higher-resolution
// predecessors.
package consolidate

import (
	"github.com/rondohq/rondo/pkg/ring"
	"github.com/rondohq/rondo/pkg/schema"
	"github.com/rondohq/rondo/pkg/storage"
)

// Pair is one source-tier-to-dest-tier consolidation edge within a
// schema's cascade. Source feeds Dest via Dest's consolidation function.
type Pair struct {
	Source     schema.Tier
	SourceSlab *storage.Slab
	Dest       schema.Tier
	DestSlab   *storage.Slab
}

// Sweep consolidates every complete dest-tier window in (cursor, now]
// for one series column, writing one aggregated point per window into
// Dest. Each window is the half-open-below, closed-above interval
// (windowEnd-windowLen, windowEnd], labeled on Dest by windowEnd — so a
// 10s dest tier consuming source samples at t=1..10s produces a single
// point at t=10s, never at t=0, which keeps every consolidated point
// clear of the "timestamp == 0 means unwritten" sentinel. Sweep returns
// the cursor value to persist for next time — the end timestamp of the
// last window it wrote (or cursor unchanged if nothing was ready yet).
//
// A window is "complete" when its end falls at or before now; an
// in-progress window (one that would still receive more source points
// before it closes) is never consolidated; the next Sweep call with a
// later now picks it up once it has closed.
//
// Only the newest Dest slot_count windows up to now are written: any
// older window would land on a Dest slot that a later window of the same
// sweep overwrites, so Sweep starts no earlier than that. A cursor of 0
// against wall-clock timestamps therefore costs at most slot_count
// windows, not one per window since the epoch.
//
// Sweep is idempotent: calling it again with the same cursor and now
// recomputes and rewrites the same windows with the same values, since
// the aggregation only depends on data already durably on Source.
func Sweep(p Pair, column uint32, cursor, now uint64) (newCursor uint64, windows int) {
	windowLen := p.Dest.IntervalNs
	newCursor = cursor

	if span := uint64(p.DestSlab.SlotCount()) * windowLen; alignDown(now, windowLen) > span {
		if floor := alignDown(now, windowLen) - span; floor > cursor {
			cursor = floor
		}
	}

	for windowEnd := alignDown(cursor, windowLen) + windowLen; windowEnd <= now; windowEnd += windowLen {
		windowStart := windowEnd - windowLen
		points := ring.ReadRange(p.SourceSlab, column, windowStart+1, windowEnd)
		values := make([]float64, len(points))
		for i, pt := range points {
			values[i] = pt.Value
		}
		aggregated := p.Dest.Func.Apply(values)
		p.DestSlab.Write(column, windowEnd, aggregated)
		newCursor = windowEnd
		windows++
	}
	return newCursor, windows
}

func alignDown(ts, windowLen uint64) uint64 {
	return (ts / windowLen) * windowLen
}
