package storage

import (
	"math"
	"path/filepath"
	"testing"
	"unsafe"
)

func TestHeaderSizeIsExactly64Bytes(t *testing.T) {
	if got := unsafe.Sizeof(Header{}); got != 64 {
		t.Fatalf("Header is %d bytes, want 64", got)
	}
}

func TestSizeForTierFormula(t *testing.T) {
	var slotCount, maxSeries uint32 = 100, 4
	want := int64(HeaderSize) + int64(maxSeries)*4 + int64(slotCount)*8 + int64(slotCount)*int64(maxSeries)*8
	if got := sizeForTier(slotCount, maxSeries); got != want {
		t.Fatalf("sizeForTier = %d, want %d", got, want)
	}
}

func TestCreateOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vm_cpu.tier0.slab")

	s, err := Create(path, 10, 2, uint64(1_000_000_000), 0xdeadbeef)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.SlotCount() != 10 || s.MaxSeries() != 2 {
		t.Fatalf("unexpected dims: slots=%d max=%d", s.SlotCount(), s.MaxSeries())
	}
	col, err := s.AllocateColumn()
	if err != nil {
		t.Fatalf("AllocateColumn: %v", err)
	}
	if col != 0 {
		t.Fatalf("first column = %d, want 0", col)
	}
	s.Write(col, 5_000_000_000, 42.5)
	if err := s.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path, 0xdeadbeef)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reopened.Close()

	if reopened.SeriesCount() != 1 {
		t.Fatalf("SeriesCount after reopen = %d, want 1", reopened.SeriesCount())
	}
	slot := reopened.slotFor(5_000_000_000)
	if got := reopened.ValueAt(col, slot); got != 42.5 {
		t.Fatalf("ValueAt after reopen = %v, want 42.5", got)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vm_cpu.tier0.slab")
	s, err := Create(path, 4, 1, 1_000_000_000, 111)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	s.Close()

	if _, err := Open(path, 222); err == nil {
		t.Fatal("expected schema hash mismatch error")
	}
}

func TestAllocateColumnFullReturnsErrSeriesFull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.slab")
	s, err := Create(path, 4, 1, 1_000_000_000, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer s.Close()

	if _, err := s.AllocateColumn(); err != nil {
		t.Fatalf("first AllocateColumn: %v", err)
	}
	if _, err := s.AllocateColumn(); err == nil {
		t.Fatal("expected ErrSeriesFull on second allocation")
	}
}

func TestUnwrittenSlotIsNaN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nan.slab")
	s, err := Create(path, 4, 1, 1_000_000_000, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer s.Close()

	col, _ := s.AllocateColumn()
	if v := s.ValueAt(col, 0); !math.IsNaN(v) {
		t.Fatalf("fresh slot = %v, want NaN", v)
	}
}

func TestSlotArithmeticWraps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wrap.slab")
	s, err := Create(path, 10, 1, 1_000_000_000, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer s.Close()

	if got, want := s.slotFor(0), uint32(0); got != want {
		t.Fatalf("slotFor(0) = %d, want %d", got, want)
	}
	if got, want := s.slotFor(9_000_000_000), uint32(9); got != want {
		t.Fatalf("slotFor(9s) = %d, want %d", got, want)
	}
	if got, want := s.slotFor(10_000_000_000), uint32(0); got != want {
		t.Fatalf("slotFor(10s) = %d, want %d (wrapped)", got, want)
	}
	if got, want := s.slotFor(15_000_000_000), uint32(5); got != want {
		t.Fatalf("slotFor(15s) = %d, want %d (wrapped)", got, want)
	}
}

func TestCreateFailsIfFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.slab")
	s, err := Create(path, 4, 1, 1_000_000_000, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	s.Close()

	if _, err := Create(path, 4, 1, 1_000_000_000, 1); err == nil {
		t.Fatal("expected error creating over an existing slab file")
	}
}
