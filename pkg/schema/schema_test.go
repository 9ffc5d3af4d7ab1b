package schema

import (
	"path/filepath"
	"testing"

	"github.com/rondohq/rondo/pkg/types"
)

func testSchema() Schema {
	return Schema{
		Name:    "vm_cpu",
		Matcher: types.Present("vm_id"),
		Tiers: []Tier{
			{Name: "raw", IntervalNs: 1_000_000_000, SlotCount: 3600, MaxSeries: 1000, Func: types.FuncNone},
			{Name: "5m", IntervalNs: 300_000_000_000, SlotCount: 2016, MaxSeries: 1000, Func: types.Average},
		},
	}
}

func TestValidateAcceptsWellFormedSchema(t *testing.T) {
	if err := testSchema().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsTierZeroWithFunc(t *testing.T) {
	s := testSchema()
	s.Tiers[0].Func = types.Average
	if err := s.Validate(); err == nil {
		t.Fatal("expected error when tier 0 has a consolidation func")
	}
}

func TestValidateRejectsLaterTierWithoutFunc(t *testing.T) {
	s := testSchema()
	s.Tiers[1].Func = types.FuncNone
	if err := s.Validate(); err == nil {
		t.Fatal("expected error when a later tier has no consolidation func")
	}
}

func TestValidateRejectsNonIncreasingInterval(t *testing.T) {
	s := testSchema()
	s.Tiers[1].IntervalNs = s.Tiers[0].IntervalNs
	if err := s.Validate(); err == nil {
		t.Fatal("expected error for non-increasing tier interval")
	}
}

func TestHashStableAcrossEqualDeclarations(t *testing.T) {
	a := testSchema()
	b := testSchema()
	if a.Hash() != b.Hash() {
		t.Fatal("two identical schema declarations hashed differently")
	}
}

func TestHashChangesWithMatcher(t *testing.T) {
	a := testSchema()
	b := testSchema()
	b.Matcher = types.Exact("vm_id", "42")
	if a.Hash() == b.Hash() {
		t.Fatal("different matchers produced the same hash")
	}
}

func TestHashChangesWithTierFunc(t *testing.T) {
	a := testSchema()
	b := testSchema()
	b.Tiers[1].Func = types.Max
	if a.Hash() == b.Hash() {
		t.Fatal("different tier consolidation funcs produced the same hash")
	}
}

func TestTierByName(t *testing.T) {
	s := testSchema()
	tier, idx, ok := s.TierByName("5m")
	if !ok || idx != 1 || tier.Name != "5m" {
		t.Fatalf("TierByName(5m) = %+v, %d, %v", tier, idx, ok)
	}
	if _, _, ok := s.TierByName("missing"); ok {
		t.Fatal("expected ok=false for unknown tier name")
	}
}

func TestSaveLoadMetaRoundTrip(t *testing.T) {
	s := testSchema()
	path := filepath.Join(t.TempDir(), "meta.json")

	if err := SaveMeta(path, s); err != nil {
		t.Fatalf("SaveMeta: %v", err)
	}
	loaded, err := LoadMeta(path)
	if err != nil {
		t.Fatalf("LoadMeta: %v", err)
	}
	if loaded.Hash() != s.Hash() {
		t.Fatalf("round-tripped schema hash mismatch: %d vs %d", loaded.Hash(), s.Hash())
	}
	if loaded.Name != s.Name || len(loaded.Tiers) != len(s.Tiers) {
		t.Fatalf("round-tripped schema mismatch: %+v", loaded)
	}
}

func TestSaveMetaOverwritesAtomically(t *testing.T) {
	s := testSchema()
	path := filepath.Join(t.TempDir(), "meta.json")

	if err := SaveMeta(path, s); err != nil {
		t.Fatalf("first SaveMeta: %v", err)
	}
	s.Tiers[1].MaxSeries = 5000
	if err := SaveMeta(path, s); err != nil {
		t.Fatalf("second SaveMeta: %v", err)
	}
	loaded, err := LoadMeta(path)
	if err != nil {
		t.Fatalf("LoadMeta: %v", err)
	}
	if loaded.Tiers[1].MaxSeries != 5000 {
		t.Fatalf("expected overwritten meta.json, got %+v", loaded.Tiers[1])
	}
}
