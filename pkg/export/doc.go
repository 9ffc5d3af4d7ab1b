/*
Package export implements per-destination drain cursors: resumable reads
that let an external consumer (a remote-write forwarder, a batch export
job) pull newly written points without re-scanning everything it's already
seen.

# Drain

Drain(slab, column, since, now) reads (since, now] and returns both the
points and the cursor value to persist. The cursor only ever advances past
data Drain actually returned — if the window was empty, the cursor comes
back unchanged. That's what makes the default delivery semantics
at-least-once rather than at-most-once: a destination that dies after
Drain but before saving the new cursor just re-reads the same points on
its next call, rather than silently skipping a window it technically
never processed.

# Cursors

Cursors persists one cursor per (schema, tier, destination) to
export_cursors.json, atomically, the same pattern used throughout this
module's durable state (pkg/schema's meta.json, pkg/consolidate's
consolidation_cursors.json).

# Usage

	cursors := export.NewCursors()
	cursors.Load(filepath.Join(dir, "export_cursors.json"))

	key := export.CursorKey{Schema: "vm_cpu", Tier: "raw", Destination: "prometheus-remote-write"}
	since := cursors.Get(key)
	points, newCursor := export.Drain(slab, column, since, now)
	cursors.Set(key, newCursor)
	cursors.Save(filepath.Join(dir, "export_cursors.json"))
*/
package export
