package storage

import "errors"

// Sentinel errors returned by Open/Create, checked with errors.Is. The
// wrapping call site (header.go's validate, or Open itself) adds the
// specific field values; callers that only care about the error kind
// should match against these.
var (
	// ErrMagicMismatch means the file does not start with the rondo slab
	// magic bytes — it is either not a slab or badly corrupt.
	ErrMagicMismatch = errors.New("storage: slab magic mismatch")
	// ErrVersionUnsupported means the slab's format version is not one
	// this build knows how to read.
	ErrVersionUnsupported = errors.New("storage: unsupported slab version")
	// ErrSchemaMismatch means the slab's schema_hash does not match what
	// the caller declared for this (schema, tier) — the schema
	// declaration changed since this slab was created.
	ErrSchemaMismatch = errors.New("storage: slab schema hash mismatch")
	// ErrSizeMismatch means the file's size does not match what its own
	// header declares (slot_count, max_series) — truncated or corrupt.
	ErrSizeMismatch = errors.New("storage: slab file size mismatch")
	// ErrSeriesFull means SeriesCount is already at MaxSeries.
	ErrSeriesFull = errors.New("storage: series directory full")
	// ErrClosed means a method was called on a Slab after Close.
	ErrClosed = errors.New("storage: slab closed")
)
