package series

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rondohq/rondo/pkg/types"
)

var errFull = errors.New("full")

func canon(t *testing.T, pairs ...types.Label) types.Labels {
	t.Helper()
	labels, err := types.Canonicalize(pairs)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	return labels
}

func TestRegisterIsIdempotent(t *testing.T) {
	r := NewRegistry(0)
	labels := canon(t, types.Label{Key: "vm_id", Value: "7"})

	calls := 0
	allocate := func() (uint32, error) {
		calls++
		return uint32(calls - 1), nil
	}

	h1, err := r.Register(labels, allocate)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	h2, err := r.Register(labels, allocate)
	if err != nil {
		t.Fatalf("second Register: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("idempotent registration produced different handles: %+v vs %+v", h1, h2)
	}
	if calls != 1 {
		t.Fatalf("allocate called %d times, want 1", calls)
	}
}

func TestRegisterDistinctLabelsGetDistinctColumns(t *testing.T) {
	r := NewRegistry(0)
	next := uint32(0)
	allocate := func() (uint32, error) {
		c := next
		next++
		return c, nil
	}

	a, _ := r.Register(canon(t, types.Label{Key: "vm_id", Value: "1"}), allocate)
	b, _ := r.Register(canon(t, types.Label{Key: "vm_id", Value: "2"}), allocate)
	if a.Column == b.Column {
		t.Fatalf("distinct label sets got the same column: %d", a.Column)
	}
	if r.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", r.Count())
	}
}

func TestRegisterPropagatesAllocateError(t *testing.T) {
	r := NewRegistry(0)
	_, err := r.Register(canon(t, types.Label{Key: "vm_id", Value: "1"}), func() (uint32, error) {
		return 0, errFull
	})
	if !errors.Is(err, errFull) {
		t.Fatalf("expected allocate error to propagate, got %v", err)
	}
}

func TestLookupReflectsRegister(t *testing.T) {
	r := NewRegistry(0)
	labels := canon(t, types.Label{Key: "vm_id", Value: "1"})

	if _, ok := r.Lookup(labels); ok {
		t.Fatal("expected no entry before registration")
	}
	want, _ := r.Register(labels, func() (uint32, error) { return 0, nil })
	got, ok := r.Lookup(labels)
	if !ok || got != want {
		t.Fatalf("Lookup after Register = %+v, %v; want %+v, true", got, ok, want)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	r := NewRegistry(3)
	next := uint32(0)
	allocate := func() (uint32, error) {
		c := next
		next++
		return c, nil
	}
	r.Register(canon(t, types.Label{Key: "vm_id", Value: "1"}), allocate)
	r.Register(canon(t, types.Label{Key: "vm_id", Value: "2"}, types.Label{Key: "region", Value: "us"}), allocate)

	path := filepath.Join(t.TempDir(), "series_index.bin")
	if err := r.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored := NewRegistry(3)
	if err := restored.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if restored.Count() != 2 {
		t.Fatalf("restored Count() = %d, want 2", restored.Count())
	}
	h, ok := restored.Lookup(canon(t, types.Label{Key: "vm_id", Value: "2"}, types.Label{Key: "region", Value: "us"}))
	if !ok {
		t.Fatal("expected restored registry to contain the second series")
	}
	if h.SchemaIndex != 3 {
		t.Fatalf("restored handle SchemaIndex = %d, want 3", h.SchemaIndex)
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	r := NewRegistry(0)
	if err := r.Load(filepath.Join(t.TempDir(), "does_not_exist.bin")); err != nil {
		t.Fatalf("Load of missing file should be a no-op, got %v", err)
	}
	if r.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", r.Count())
	}
}
