/*
Package consolidate feeds a schema's lower-resolution tiers from their
higher-resolution predecessors.

# Sweep

Sweep walks complete, window-aligned chunks of a source tier in
(cursor, now] and writes one aggregated point per window into a dest
tier, using the dest tier's declared types.ConsolidationFunc. A window
that hasn't fully elapsed yet — one that could still receive more source
points before it closes — is left for the next call once now has moved
past it.

Sweep is pure with respect to what's already durable on the source slab:
running it twice with the same arguments recomputes and rewrites the same
windows with the same values, so retrying after a crash mid-sweep is
always safe.

# Cursors

Cursors is the durable bookkeeping that turns repeated Sweep calls into a
non-overlapping walk forward through time: each (schema, source tier, dest
tier) edge has its own cursor, persisted to consolidation_cursors.json the
same way pkg/schema persists meta.json — uuid-suffixed temp file, fsync,
rename. The cursor belongs to the edge, not to any one series — a slab's
timestamp column is shared across every series column in it, so "the
newest complete window" is the same answer for all of them. A caller's
maintenance loop reads the edge's cursor once, runs Sweep for every
registered series from that same starting cursor, then advances and
persists the (identical, across series) resulting cursor.

# Usage

	cursors := consolidate.NewCursors()
	cursors.Load(filepath.Join(dir, "consolidation_cursors.json"))

	key := consolidate.CursorKey{Schema: "vm_cpu", Source: "raw", Dest: "5m"}
	cursor := cursors.Get(key)
	newCursor, windows := consolidate.Sweep(pair, column, cursor, now)
	cursors.Set(key, newCursor)
	cursors.Save(filepath.Join(dir, "consolidation_cursors.json"))
*/
package consolidate
