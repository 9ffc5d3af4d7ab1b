package storage

import (
	"fmt"
	"math"
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Slab is one memory-mapped ring-buffer file: a 64-byte header, a series
// directory, a shared timestamp column, and one value column per series.
// All three regions share the same slot cadence — slot i's timestamp in
// the timestamp column and slot i's value in every series' value column
// describe the same point in time for that series.
//
// A Slab has no internal locking beyond what's needed to protect its own
// bookkeeping (mmap region, closed flag); rondo's single-writer contract
// means callers serialize writes themselves. Reads may race a concurrent
// writer and observe a torn value — the ring is built to make that
// acceptable (§5 of the format: readers never block on writers).
type Slab struct {
	file *os.File
	data []byte

	slotCount  uint32
	maxSeries  uint32
	schemaHash uint64

	mu     sync.RWMutex
	closed bool
}

// Create creates a new slab file at path sized for slotCount slots and
// maxSeries columns, mmaps it, writes its header (write cursor and series
// count zero), and marks every value slot NaN. It fails if a
// file already exists at path — callers that want create-or-open
// semantics should try Open first.
func Create(path string, slotCount, maxSeries uint32, intervalNs uint64, schemaHash uint64) (*Slab, error) {
	size := sizeForTier(slotCount, maxSeries)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", path, err)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("storage: truncate %s to %d bytes: %w", path, size, err)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("storage: mmap %s: %w", path, err)
	}

	h := headerFromBytes(data)
	*h = Header{
		MagicBytes: Magic,
		VersionNum: Version,
		SchemaHash: schemaHash,
		SlotCount:  slotCount,
		MaxSeries:  maxSeries,
		IntervalNs: intervalNs,
	}

	s := &Slab{file: f, data: data, slotCount: slotCount, maxSeries: maxSeries, schemaHash: schemaHash}
	s.fillValuesNaN()
	return s, nil
}

// Open mmaps an existing slab file and validates its header against
// expectSchemaHash. The slot_count and max_series already on disk are
// authoritative — Open does not resize an existing slab.
func Open(path string, expectSchemaHash uint64) (*Slab, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("storage: stat %s: %w", path, err)
	}
	if info.Size() < HeaderSize {
		f.Close()
		return nil, fmt.Errorf("storage: %s is %d bytes, smaller than a header: %w", path, info.Size(), ErrSizeMismatch)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("storage: mmap %s: %w", path, err)
	}

	h := headerFromBytes(data)
	if err := h.validate(expectSchemaHash); err != nil {
		unix.Munmap(data)
		f.Close()
		return nil, err
	}

	wantSize := sizeForTier(h.SlotCount, h.MaxSeries)
	if info.Size() != wantSize {
		unix.Munmap(data)
		f.Close()
		return nil, fmt.Errorf("storage: %s is %d bytes, header implies %d: %w", path, info.Size(), wantSize, ErrSizeMismatch)
	}

	return &Slab{
		file:       f,
		data:       data,
		slotCount:  h.SlotCount,
		maxSeries:  h.MaxSeries,
		schemaHash: h.SchemaHash,
	}, nil
}

// offsets into data, computed once per call rather than cached, since they
// only involve a handful of integer multiplies.
func (s *Slab) directoryOffset() int64 { return HeaderSize }
func (s *Slab) timestampOffset() int64 {
	return s.directoryOffset() + int64(s.maxSeries)*4
}
func (s *Slab) valueColumnOffset(column uint32) int64 {
	return s.timestampOffset() + int64(s.slotCount)*8 + int64(column)*int64(s.slotCount)*8
}

func (s *Slab) header() *Header { return headerFromBytes(s.data) }

// SlotCount returns the number of slots in this slab's ring.
func (s *Slab) SlotCount() uint32 { return s.slotCount }

// MaxSeries returns the column capacity of this slab.
func (s *Slab) MaxSeries() uint32 { return s.maxSeries }

// IntervalNs returns the slot width this slab was created with.
func (s *Slab) IntervalNs() uint64 { return s.header().IntervalNs }

// SchemaHash returns the schema hash this slab was created or opened with.
func (s *Slab) SchemaHash() uint64 { return s.schemaHash }

// SeriesCount returns the number of columns currently registered.
func (s *Slab) SeriesCount() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.header().SeriesCount
}

// WriteCursor returns the slot index of the most recently written point,
// shared across every series in this slab.
func (s *Slab) WriteCursor() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.header().WriteCursor
}

// AllocateColumn reserves the next free column in the series directory,
// marking it with a nonzero generation so a reopen can tell a registered
// column apart from a never-used one. Returns ErrSeriesFull at capacity.
func (s *Slab) AllocateColumn() (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.header()
	if h.SeriesCount >= h.MaxSeries {
		return 0, ErrSeriesFull
	}
	column := h.SeriesCount
	dir := s.directoryView()
	dir[column] = column + 1 // nonzero generation marker
	h.SeriesCount++
	return column, nil
}

// directoryView returns the series-directory region as a uint32 slice,
// one entry per column.
func (s *Slab) directoryView() []uint32 {
	base := s.data[s.directoryOffset():]
	return unsafe.Slice((*uint32)(unsafe.Pointer(&base[0])), s.maxSeries)
}

func (s *Slab) timestampView() []uint64 {
	base := s.data[s.timestampOffset():]
	return unsafe.Slice((*uint64)(unsafe.Pointer(&base[0])), s.slotCount)
}

func (s *Slab) valueView(column uint32) []float64 {
	base := s.data[s.valueColumnOffset(column):]
	return unsafe.Slice((*float64)(unsafe.Pointer(&base[0])), s.slotCount)
}

// slotFor computes the ring slot for a timestamp given this slab's
// interval — the single piece of arithmetic every read and write in the
// package is built on.
func (s *Slab) slotFor(ts uint64) uint32 {
	interval := s.header().IntervalNs
	return uint32((ts / interval) % uint64(s.slotCount))
}

// Write records one point for column at ts, advancing the shared write
// cursor. It does not take a lock around the actual memory writes — only
// around the cursor update — matching the single-writer, torn-read-tolerant
// contract described in the package doc.
func (s *Slab) Write(column uint32, ts uint64, value float64) {
	slot := s.slotFor(ts)
	s.timestampView()[slot] = ts
	s.valueView(column)[slot] = value

	s.mu.Lock()
	s.header().WriteCursor = slot
	s.mu.Unlock()
}

// TimestampAt and ValueAt read slot state directly; out-of-range slots are
// a caller bug, not a condition this package is built to recover from, per
// the "bounds-checked in debug, assumed in release" simplification: this
// package relies uniformly on Go's own slice bounds checks rather than a
// build-tag split.
func (s *Slab) TimestampAt(slot uint32) uint64      { return s.timestampView()[slot] }
func (s *Slab) ValueAt(column, slot uint32) float64 { return s.valueView(column)[slot] }

// fillValuesNaN marks every slot in every column as unwritten. Only
// needed on Create: a freshly truncated file is already zero-filled, which
// would otherwise read back as 0.0 instead of "never written".
func (s *Slab) fillValuesNaN() {
	for c := uint32(0); c < s.maxSeries; c++ {
		v := s.valueView(c)
		for i := range v {
			v[i] = math.NaN()
		}
	}
}

// Sync flushes the mmap'd region to disk with msync, then fsyncs the
// file descriptor so the write is durable across a crash, not just visible
// to other mappers.
func (s *Slab) Sync() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	if err := unix.Msync(s.data, unix.MS_SYNC); err != nil {
		return fmt.Errorf("storage: msync: %w", err)
	}
	return s.file.Sync()
}

// Close flushes the mmap'd region to disk, then unmaps and closes the
// underlying file — spec'd as part of an engine-wide close flushing
// every open slab.
func (s *Slab) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := unix.Msync(s.data, unix.MS_SYNC); err != nil {
		return fmt.Errorf("storage: msync: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := unix.Munmap(s.data); err != nil {
		return fmt.Errorf("storage: munmap: %w", err)
	}
	return s.file.Close()
}
