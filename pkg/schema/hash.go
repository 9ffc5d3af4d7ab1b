package schema

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Hash computes the stable schema hash stored in every slab header for
// this schema. It folds in everything that changes a slab's on-disk
// layout or the meaning of its bytes: the admission matcher and, per
// tier, its name, interval, slot count, max series, and consolidation
// function. Two Schema values that would produce byte-identical slabs
// always hash the same regardless of how their Go struct literals were
// built; two that differ in any of these fields never collide in
// practice (xxhash, not used for its collision resistance as a security
// property — just format-change detection).
func (s Schema) Hash() uint64 {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteByte('\x00')
	b.WriteString(s.Matcher.Canonical())
	for _, t := range s.Tiers {
		fmt.Fprintf(&b, "\x00%s:%d:%d:%d:%s", t.Name, t.IntervalNs, t.SlotCount, t.MaxSeries, t.Func)
	}
	return xxhash.Sum64String(b.String())
}
