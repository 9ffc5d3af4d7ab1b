/*
Package schema declares the shape of one named metric family: the
types.LabelMatcher deciding which series it admits, and the ordered cascade
of storage.Slab tiers those series live in.

# Schema Hash

Hash folds the matcher's canonical form and every tier's name, interval,
slot count, max series, and consolidation function into a single uint64,
computed with xxhash. It is written into every slab's header at creation
and checked on every Open: a schema declaration that changes any of these
fields no longer matches slabs created under the old declaration, and
storage.Open refuses to reinterpret their bytes under the new one
(ErrSchemaMismatch).

# Persistence

SaveMeta/LoadMeta round-trip a Schema through meta.json, one file per
schema directory. Matchers are encoded with a string Kind ("any", "exact",
"present", "all") rather than the MatcherKind int, so the file stays
readable and stable even if the Go-side enum's iota values ever shift.
Writes go through a uuid-suffixed temp file, fsync, then rename, so a
concurrent reader or a crash mid-write never observes a half-written
meta.json.

# Usage

	s := schema.Schema{
		Name:    "vm_cpu",
		Matcher: types.Present("vm_id"),
		Tiers: []schema.Tier{
			{Name: "raw", IntervalNs: 1e9, SlotCount: 3600, MaxSeries: 1000, Func: types.FuncNone},
			{Name: "5m", IntervalNs: 300e9, SlotCount: 2016, MaxSeries: 1000, Func: types.Average},
		},
	}
	if err := s.Validate(); err != nil {
		// reject the declaration before it ever touches disk
	}
	hash := s.Hash()
*/
package schema
