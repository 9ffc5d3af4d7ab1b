// Package query answers range reads against a schema's tier cascade,
// either against one named tier or by automatically picking the
// finest-resolution tier that can cover the requested window.
package query

import (
	"fmt"

	"github.com/rondohq/rondo/pkg/ring"
	"github.com/rondohq/rondo/pkg/schema"
	"github.com/rondohq/rondo/pkg/storage"
)

// TierSlab pairs a tier's declaration with its open slab, the unit query
// operates over. Callers (pkg/store) assemble the slice from whichever
// tiers of a schema are currently open.
type TierSlab struct {
	Tier schema.Tier
	Slab *storage.Slab
}

// Range reads [start, end] (both ends inclusive) from one specific tier
// by name.
func Range(tiers []TierSlab, tierName string, column uint32, start, end uint64) ([]ring.Point, error) {
	ts, ok := find(tiers, tierName)
	if !ok {
		return nil, fmt.Errorf("query: tier %q not open", tierName)
	}
	return ring.ReadRange(ts.Slab, column, start, end), nil
}

// Auto picks the finest-resolution tier (smallest interval_ns) whose
// retention fully covers the requested window and reads from it. If no
// tier's retention covers the whole window, it falls back to the
// coarsest available tier — the one most likely to still hold the older
// end of the range, at the cost of resolution on the newer end.
//
// Tiers are expected in cascade order (tiers[0] finest, tiers[len-1]
// coarsest) — the order pkg/schema.Schema.Tiers is declared in.
func Auto(tiers []TierSlab, column uint32, start, end uint64) ([]ring.Point, schema.Tier, error) {
	if len(tiers) == 0 {
		return nil, schema.Tier{}, fmt.Errorf("query: no tiers open")
	}
	span := end - start
	for _, ts := range tiers {
		if uint64(ts.Tier.Retention()) >= span {
			return ring.ReadRange(ts.Slab, column, start, end), ts.Tier, nil
		}
	}
	coarsest := tiers[len(tiers)-1]
	return ring.ReadRange(coarsest.Slab, column, start, end), coarsest.Tier, nil
}

func find(tiers []TierSlab, name string) (TierSlab, bool) {
	for _, ts := range tiers {
		if ts.Tier.Name == name {
			return ts, true
		}
	}
	return TierSlab{}, false
}
