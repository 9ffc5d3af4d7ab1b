/*
Package storage implements rondo's slab format: the memory-mapped,
columnar ring-buffer file that backs one (schema, tier) pair.

A slab is a single file, mmap'd for the lifetime of the tier, holding a
fixed-size header, a series directory, a shared timestamp column, and one
value column per registered series. Every region's size is fixed at
creation time from slot_count and max_series — a slab never grows or
shrinks; exhausting max_series means the schema needs a new slab, not a
resize of this one.

# Architecture

	┌──────────────────────── SLAB FILE ────────────────────────┐
	│                                                              │
	│  ┌──────────────────────────────────────────────┐          │
	│  │              Header (64 bytes)                 │          │
	│  │  magic | version | schema_hash | slot_count    │          │
	│  │  max_series | interval_ns | write_cursor        │          │
	│  │  | series_count | reserved                      │          │
	│  └──────────────────┬───────────────────────────┘          │
	│                     │                                        │
	│  ┌──────────────────▼───────────────────────────┐          │
	│  │         Series Directory (max_series × 4B)    │          │
	│  │  generation marker per column, 0 = unused      │          │
	│  └──────────────────┬───────────────────────────┘          │
	│                     │                                        │
	│  ┌──────────────────▼───────────────────────────┐          │
	│  │      Timestamp Column (slot_count × 8B)        │          │
	│  │  shared across every series in this slab       │          │
	│  └──────────────────┬───────────────────────────┘          │
	│                     │                                        │
	│  ┌──────────────────▼───────────────────────────┐          │
	│  │   Value Columns (max_series × slot_count × 8B)│          │
	│  │  column 0 | column 1 | ... | column N          │          │
	│  │  NaN marks a slot never written for that column│          │
	│  └────────────────────────────────────────────────┘          │
	└──────────────────────────────────────────────────────────────┘

# Core Components

Header: the 64-byte struct at offset 0, cast directly onto the mmap'd
bytes rather than decoded — the format is native-endian because a slab is
never expected to move between architectures.

Slab: the open handle — mmap region, derived offsets, and the column/slot
accessors record() and query operations are built on. AllocateColumn grows
the series directory; Write, TimestampAt, and ValueAt are the hot-path
primitives.

Series Directory: one uint32 generation marker per column. A reopened
slab distinguishes a never-registered column (0) from a registered one
(nonzero) without needing a separate presence bitmap.

# Slot Arithmetic

	slot = (ts / interval_ns) % slot_count

Every write and read goes through this one formula. Because it wraps, a
slab holds at most slot_count × interval_ns of history per series — older
writes are silently overwritten by newer ones landing on the same slot,
which is the entire point of a round-robin store: bounded size,
no manual eviction.

# Concurrency

rondo assumes a single writer per slab. Write does not lock around the
column/timestamp mutation itself, only around the shared write_cursor
field — concurrent readers may observe a torn point (a timestamp updated
but its value not yet, or vice versa) during a write landing on the slot
they're reading. That's accepted, not a bug: the query layer treats a
slot's timestamp as informational, not as a coordination signal. A
consolidation sweep does not revisit a window once its cursor has passed
it.

# Validation

Open rejects a file whose magic, version, schema_hash, or total size don't
match what the caller expects (ErrMagicMismatch, ErrVersionUnsupported,
ErrSchemaMismatch, ErrSizeMismatch) rather than guessing at a partial
mapping. A schema_hash mismatch usually means the schema's tier list or
matcher declarations changed since this slab was written — callers are
expected to either keep the old declaration or archive the slab and start
a new one, not silently reinterpret its bytes under a new layout.
*/
package storage
