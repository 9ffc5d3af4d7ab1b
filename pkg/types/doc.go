/*
Package types defines rondo's core data model: labels, label matchers,
consolidation functions, and the opaque series handle. It is the leaf
dependency of the module — everything else (pkg/schema, pkg/series,
pkg/ring, pkg/consolidate, pkg/query, pkg/export, pkg/store) imports it,
and it imports nothing from this module in return.

# Core Types

Labels: an unordered set of key/value string pairs, canonicalized by
Canonicalize into a sorted, duplicate-checked Labels value. Two
registrations with the same pairs in any order produce an identical
canonical key (Labels.Key), which is what makes registration idempotent.

LabelMatcher: a closed set of ways a schema admits a series — MatchAny,
MatchExact, MatchPresent, and MatchAll (conjunction). Matcher semantics are
part of the schema hash (LabelMatcher.Canonical feeds it), so changing what
a given Kind means is a wire-format break, not just a behavior change.

ConsolidationFunc: the closed enumeration {Average, Min, Max, Last, Sum,
Count}, plus FuncNone for the tier that has no predecessor. Apply takes
already NaN-filtered values in ascending source-slot order; every function
but Count returns NaN on an empty window, Count returns 0.

SeriesHandle: an opaque, copyable (SchemaIndex, Column) pair. It is the
only thing record()/record_batch() need — no map lookup, no string
comparison, no allocation on the hot path.

# Stability

LabelMatcher.Canonical() and ConsolidationFunc.String() are both baked into
the on-disk schema hash (see pkg/schema). Changing their output for an
existing Kind/value without also bumping the slab format version would
make previously-written slabs fail SchemaMismatch on open even though
nothing the caller wrote actually changed — treat them as wire format, not
debug output.
*/
package types
