/*
Package query reads time ranges back out of a schema's tier cascade.

Range reads a named tier directly — the caller already knows which
resolution it wants. Auto instead walks the cascade from finest to
coarsest and picks the first tier whose retention window fully covers
[start, end], falling back to the coarsest tier available if none do, on
the theory that old data at low resolution beats no data at all.

Neither function does any consolidation of its own — that's pkg/consolidate's
job, run ahead of time. Query only ever reads what's already on disk in the
tier it picks.
*/
package query
