package export

import (
	"path/filepath"
	"testing"

	"github.com/rondohq/rondo/pkg/storage"
)

func newSlab(t *testing.T) (*storage.Slab, uint32) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drain.slab")
	s, err := storage.Create(path, 20, 1, 1_000_000_000, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	col, _ := s.AllocateColumn()
	return s, col
}

func TestDrainReturnsNewPointsAndAdvancesCursor(t *testing.T) {
	s, col := newSlab(t)
	s.Write(col, 1_000_000_000, 1)
	s.Write(col, 2_000_000_000, 2)

	points, cursor := Drain(s, col, 0, 10_000_000_000)
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if cursor != 2_000_000_000 {
		t.Fatalf("cursor = %d, want %d", cursor, 2_000_000_000)
	}
}

func TestDrainIsResumable(t *testing.T) {
	s, col := newSlab(t)
	s.Write(col, 1_000_000_000, 1)
	s.Write(col, 2_000_000_000, 2)

	first, cursor := Drain(s, col, 0, 10_000_000_000)
	if len(first) != 2 {
		t.Fatalf("first drain got %d points, want 2", len(first))
	}

	s.Write(col, 3_000_000_000, 3)
	second, newCursor := Drain(s, col, cursor, 10_000_000_000)
	if len(second) != 1 || second[0].Value != 3 {
		t.Fatalf("resumed drain = %+v, want only the new point", second)
	}
	if newCursor <= cursor {
		t.Fatalf("cursor did not advance: %d -> %d", cursor, newCursor)
	}
}

func TestDrainEmptyWindowLeavesCursorUnchanged(t *testing.T) {
	s, col := newSlab(t)
	points, cursor := Drain(s, col, 5_000_000_000, 6_000_000_000)
	if len(points) != 0 {
		t.Fatalf("expected no points, got %+v", points)
	}
	if cursor != 5_000_000_000 {
		t.Fatalf("cursor = %d, want unchanged at 5s", cursor)
	}
}

func TestCursorsSaveLoadRoundTrip(t *testing.T) {
	c := NewCursors()
	key := CursorKey{Schema: "vm_cpu", Tier: "raw", Destination: "dest-a"}
	c.Set(key, 99)

	path := filepath.Join(t.TempDir(), "export_cursors.json")
	if err := c.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := NewCursors()
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := loaded.Get(key); got != 99 {
		t.Fatalf("loaded cursor = %d, want 99", got)
	}
}
