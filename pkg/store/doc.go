/*
Package store is rondo's facade. Everything else in this module is a leaf
library; store is where they get wired into the one thing a caller opens,
writes to, queries, consolidates, and drains.

# Architecture

	┌────────────────────────── STORE ──────────────────────────┐
	│                                                              │
	│  Open(Config) ─── one schemaState per configured schema     │
	│     │                                                        │
	│     ├─ pkg/schema   meta.json, hash comparison on reopen    │
	│     ├─ pkg/storage  one *Slab per tier, mmap'd              │
	│     ├─ pkg/series   registry, loaded from series_index.bin  │
	│     └─ pkg/query    []TierSlab handed to Range/Auto          │
	│                                                              │
	│  Register  ──▶ series.Registry.Register, column kept in     │
	│                lockstep across every tier's slab             │
	│  Record    ──▶ tier-0 Slab.Write only — the hot path          │
	│  QueryRange/QueryAuto ──▶ pkg/query                          │
	│  Consolidate ──▶ pkg/consolidate.Sweep per tier edge          │
	│  Drain     ──▶ pkg/export.Drain per destination               │
	│                                                              │
	│  consolidation_cursors.json, export_cursors.json live at     │
	│  the data-dir root; one meta.json, series_index.bin, and     │
	│  a *.slab file per tier live under each schema's subdir.      │
	└──────────────────────────────────────────────────────────────┘

# Concurrency

Record and RecordBatch are the hot path and take no store-level lock —
they delegate straight to storage.Slab.Write, which only locks its own
write-cursor field. Register takes Store.mu because it mutates the
series registry and allocates columns across every tier of a schema in
lockstep; Consolidate and Drain don't need Store.mu since they only read
the registry and write through already-synchronized slab primitives, but
running two Consolidate calls for the same schema concurrently would
race on the persisted cursor file, so callers are expected to serialize
those themselves (see pkg/maintenance).

# Reopening

Open compares each configured schema's Hash against what's recorded in
meta.json and fails closed on a mismatch rather than guessing which
side is stale. A caller that changes a schema's tier cascade or matcher
is expected to pick a new schema name or archive the old data directory.

# Usage

	st, err := store.Open(store.Config{
	    DataDir: "/var/lib/rondo",
	    Schemas: []schema.Schema{vmCPUSchema},
	})
	handle, err := st.Register("vm_cpu", []types.Label{{Key: "host", Value: "vm-1"}})
	st.Record(handle, uint64(time.Now().UnixNano()), 42.0)
	points, err := st.QueryRange("vm_cpu", "raw", handle.Column, start, end)
	st.Consolidate("vm_cpu")
	results, err := st.Drain("vm_cpu", "raw", "prometheus-remote-write")
	st.Close()
*/
package store
