// Package export implements per-destination drain cursors: resumable,
// at-least-once reads of newly written points for a downstream consumer.
package export

import (
	"github.com/rondohq/rondo/pkg/ring"
	"github.com/rondohq/rondo/pkg/storage"
)

// Drain returns every point for column with timestamp in (since, now]
// (since itself excluded since it was already returned by a prior Drain;
// now itself included, since the caller's now is typically the tier's
// own newest written timestamp), along with the cursor value the caller
// should persist for its next Drain call. If no points were found, the
// cursor is returned unchanged — Drain never advances past data it
// hasn't actually seen, which is what keeps at-least-once delivery from
// becoming silent data loss: a destination that crashes after Drain but
// before persisting the returned cursor simply re-reads the same points
// next time.
func Drain(slab *storage.Slab, column uint32, since, now uint64) ([]ring.Point, uint64) {
	points := ring.ReadRange(slab, column, since+1, now)
	if len(points) == 0 {
		return points, since
	}
	last := points[len(points)-1].Timestamp
	return points, last
}
