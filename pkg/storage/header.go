package storage

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// HeaderSize is the fixed size in bytes of a slab header, per §3/§6 of the
// format specification. Every offset in this package is computed relative
// to it.
const HeaderSize = 64

// Magic identifies a file as a rondo slab.
var Magic = [4]byte{'R', 'N', 'D', 'O'}

// Version is the current slab format version. Open rejects any other
// value with ErrVersionUnsupported.
const Version uint32 = 1

// Header is the 64-byte fixed header at the start of every slab file,
// mapped directly onto the first HeaderSize bytes of the mmap region.
// Field order is load-bearing: it must not change without bumping
// Version, and every field is already naturally aligned so the Go
// compiler inserts no padding — Header is exactly HeaderSize bytes.
//
// The format is native-endian by design (§9): slabs do not move between
// architectures, and this header is read by casting mmap'd bytes directly
// rather than by decoding through encoding/binary.
type Header struct {
	MagicBytes  [4]byte
	VersionNum  uint32
	SchemaHash  uint64
	SlotCount   uint32
	MaxSeries   uint32
	IntervalNs  uint64
	WriteCursor uint32
	SeriesCount uint32
	Reserved    [24]byte
}

func headerFromBytes(b []byte) *Header {
	return (*Header)(unsafe.Pointer(&b[0]))
}

// sizeForTier computes the exact file size for a (schema, tier) slab per
// §4.1's creation contract.
func sizeForTier(slotCount, maxSeries uint32) int64 {
	return int64(HeaderSize) +
		int64(maxSeries)*4 +
		int64(slotCount)*8 +
		int64(slotCount)*int64(maxSeries)*8
}

// validate checks magic, version, and schema hash against what the caller
// expects, returning the specific error kind §7 calls for.
func (h *Header) validate(expectSchemaHash uint64) error {
	if h.MagicBytes != Magic {
		return fmt.Errorf("slab header magic %q: %w", h.MagicBytes[:], ErrMagicMismatch)
	}
	if h.VersionNum != Version {
		return fmt.Errorf("slab version %d, expected %d: %w", h.VersionNum, Version, ErrVersionUnsupported)
	}
	if h.SchemaHash != expectSchemaHash {
		return fmt.Errorf("slab schema_hash %#x, expected %#x: %w", h.SchemaHash, expectSchemaHash, ErrSchemaMismatch)
	}
	return nil
}

// encodeHeader builds a header byte sequence field by field through
// encoding/binary, without mapping a real file. Nothing in the package
// calls it; Create and Open cast the mmap'd bytes directly.
func encodeHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], h.MagicBytes[:])
	binary.NativeEndian.PutUint32(buf[4:8], h.VersionNum)
	binary.NativeEndian.PutUint64(buf[8:16], h.SchemaHash)
	binary.NativeEndian.PutUint32(buf[16:20], h.SlotCount)
	binary.NativeEndian.PutUint32(buf[20:24], h.MaxSeries)
	binary.NativeEndian.PutUint64(buf[24:32], h.IntervalNs)
	binary.NativeEndian.PutUint32(buf[32:36], h.WriteCursor)
	binary.NativeEndian.PutUint32(buf[36:40], h.SeriesCount)
	return buf
}
