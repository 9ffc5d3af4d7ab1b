package consolidate

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/rondohq/rondo/pkg/schema"
	"github.com/rondohq/rondo/pkg/storage"
	"github.com/rondohq/rondo/pkg/types"
)

func newPair(t *testing.T) (Pair, uint32) {
	t.Helper()
	dir := t.TempDir()
	raw, err := storage.Create(filepath.Join(dir, "raw.slab"), 100, 1, 1_000_000_000, 1)
	if err != nil {
		t.Fatalf("Create raw: %v", err)
	}
	t.Cleanup(func() { raw.Close() })
	five, err := storage.Create(filepath.Join(dir, "5m.slab"), 10, 1, 5_000_000_000, 2)
	if err != nil {
		t.Fatalf("Create 5m: %v", err)
	}
	t.Cleanup(func() { five.Close() })

	col, _ := raw.AllocateColumn()
	five.AllocateColumn()

	pair := Pair{
		Source:     schema.Tier{Name: "raw", IntervalNs: 1_000_000_000, SlotCount: 100, Func: types.FuncNone},
		SourceSlab: raw,
		Dest:       schema.Tier{Name: "5m", IntervalNs: 5_000_000_000, SlotCount: 10, Func: types.Average},
		DestSlab:   five,
	}
	return pair, col
}

func TestSweepAveragesCompleteWindow(t *testing.T) {
	pair, col := newPair(t)
	for i := uint64(0); i < 5; i++ {
		pair.SourceSlab.Write(col, i*1_000_000_000, float64(i+1)) // 1,2,3,4,5 at t=0..4s
	}

	newCursor, windows := Sweep(pair, col, 0, 5_000_000_000)
	if windows != 1 {
		t.Fatalf("windows = %d, want 1", windows)
	}
	if newCursor != 5_000_000_000 {
		t.Fatalf("newCursor = %d, want 5s", newCursor)
	}
	// Window (0,5s] covers source samples at t=1..4s (values 2,3,4,5);
	// t=0 belongs to the prior window and is excluded. The dest point is
	// labeled by the window's end, t=5s, which on a 5s-interval, 10-slot
	// dest tier lands on slot 1.
	if got := pair.DestSlab.ValueAt(col, 1); got != 3.5 {
		t.Fatalf("dest value = %v, want average 3.5", got)
	}
	if gotTs := pair.DestSlab.TimestampAt(1); gotTs != 5_000_000_000 {
		t.Fatalf("dest timestamp = %d, want 5s", gotTs)
	}
}

func TestSweepSkipsIncompleteWindow(t *testing.T) {
	pair, col := newPair(t)
	pair.SourceSlab.Write(col, 0, 1)
	pair.SourceSlab.Write(col, 1_000_000_000, 2)

	newCursor, windows := Sweep(pair, col, 0, 3_000_000_000)
	if windows != 0 || newCursor != 0 {
		t.Fatalf("expected no complete windows yet, got cursor=%d windows=%d", newCursor, windows)
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	pair, col := newPair(t)
	for i := uint64(0); i < 5; i++ {
		pair.SourceSlab.Write(col, i*1_000_000_000, float64(i+1))
	}

	c1, w1 := Sweep(pair, col, 0, 5_000_000_000)
	v1 := pair.DestSlab.ValueAt(col, 1)

	c2, w2 := Sweep(pair, col, 0, 5_000_000_000)
	v2 := pair.DestSlab.ValueAt(col, 1)

	if c1 != c2 || w1 != w2 || v1 != v2 {
		t.Fatalf("Sweep not idempotent: (%d,%d,%v) vs (%d,%d,%v)", c1, w1, v1, c2, w2, v2)
	}
}

func TestSweepAdvancesAcrossMultipleWindows(t *testing.T) {
	pair, col := newPair(t)
	for i := uint64(0); i < 15; i++ {
		pair.SourceSlab.Write(col, i*1_000_000_000, float64(i))
	}

	newCursor, windows := Sweep(pair, col, 0, 15_000_000_000)
	if windows != 3 {
		t.Fatalf("windows = %d, want 3", windows)
	}
	if newCursor != 15_000_000_000 {
		t.Fatalf("newCursor = %d, want 15s", newCursor)
	}
}

func TestSweepEmptyWindowYieldsNaN(t *testing.T) {
	pair, col := newPair(t)
	// Nothing written to source at all; the window still closes once
	// "now" passes it, and Average.Apply(nil) is NaN.
	_, windows := Sweep(pair, col, 0, 5_000_000_000)
	if windows != 1 {
		t.Fatalf("windows = %d, want 1", windows)
	}
	if got := pair.DestSlab.ValueAt(col, 1); !math.IsNaN(got) {
		t.Fatalf("dest value = %v, want NaN for an empty window", got)
	}
}

func TestCursorsSaveLoadRoundTrip(t *testing.T) {
	c := NewCursors()
	key := CursorKey{Schema: "vm_cpu", Source: "raw", Dest: "5m"}
	c.Set(key, 42)

	path := filepath.Join(t.TempDir(), "consolidation_cursors.json")
	if err := c.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := NewCursors()
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := loaded.Get(key); got != 42 {
		t.Fatalf("loaded cursor = %d, want 42", got)
	}
}

func TestCursorsLoadMissingFileIsNotAnError(t *testing.T) {
	c := NewCursors()
	if err := c.Load(filepath.Join(t.TempDir(), "missing.json")); err != nil {
		t.Fatalf("Load of missing file should be a no-op, got %v", err)
	}
}
