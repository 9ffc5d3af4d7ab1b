/*
Package series maps a schema's canonical label sets to the slab columns
holding their data.

A slab's own series directory (see pkg/storage) only records which
columns are in use — a generation marker, not the labels that earned them
that column. Registry is what remembers the labels side of that mapping,
both in memory and on disk as series_index.bin, so a restart can tell
"vm_id=7" apart from "vm_id=12" even though both are just some column
number inside the slab.

# Registration

Register is idempotent: looking up the same canonical label set twice —
in any call order, from any number of goroutines — always returns the
same types.SeriesHandle. The first caller to register a never-seen label
set pays for a column allocation (which can fail with storage.ErrSeriesFull
once a schema's max_series is reached); every later caller for that same
label set just gets the cached handle back.

Register does not check the label set against the schema's admission
matcher — that's a schema-level decision made once, before Register is
ever called, not a per-registration cost.

# Persistence

Save/Load round-trip a registry through a gob-encoded series_index.bin,
written atomically (uuid-suffixed temp file, fsync, rename) the same way
pkg/schema writes meta.json. gob is a plain standard-library choice here:
nothing in the surrounding dependency stack (protobuf, msgpack) survived
being wired to a real component elsewhere in this module, see DESIGN.md.

# Usage

	reg := series.NewRegistry(schemaIndex)
	reg.Load(filepath.Join(dir, "series_index.bin"))

	handle, err := reg.Register(labels, func() (uint32, error) {
		return slab.AllocateColumn()
	})

	reg.Save(filepath.Join(dir, "series_index.bin"))
*/
package series
