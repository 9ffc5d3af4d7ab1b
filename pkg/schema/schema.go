// Package schema defines rondo's declared shape for one named metric
// family: which series it admits (a types.LabelMatcher) and the cascade of
// storage tiers those series are kept in.
package schema

import (
	"fmt"
	"time"

	"github.com/rondohq/rondo/pkg/types"
)

// Tier is one resolution level in a schema's storage cascade. Tier 0 is
// always the highest-resolution tier fed directly by record()/record_batch()
// and always carries ConsolidationFunc == types.FuncNone, since nothing
// consolidates into it. Every later tier is fed by consolidating its
// predecessor with Func.
type Tier struct {
	Name       string
	IntervalNs uint64
	SlotCount  uint32
	MaxSeries  uint32
	Func       types.ConsolidationFunc
}

// Retention returns how much history this tier can hold before its ring
// wraps.
func (t Tier) Retention() time.Duration {
	return time.Duration(t.IntervalNs) * time.Duration(t.SlotCount)
}

// Schema is one named metric family: a matcher deciding which label sets
// it admits, and the ordered tier cascade those series are stored in.
type Schema struct {
	Name    string
	Matcher types.LabelMatcher
	Tiers   []Tier
}

// Validate checks the invariants a Schema must hold before it can be
// opened: a name, at least one tier, tier 0 with no consolidation
// function, every later tier with one, and strictly increasing interval
// going down the cascade. Retention is not compared between tiers.
func (s Schema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("schema: name is required")
	}
	if len(s.Tiers) == 0 {
		return fmt.Errorf("schema %q: at least one tier is required", s.Name)
	}
	if s.Tiers[0].Func != types.FuncNone {
		return fmt.Errorf("schema %q: tier 0 (%s) must have consolidation func \"none\", got %q", s.Name, s.Tiers[0].Name, s.Tiers[0].Func)
	}
	for i, t := range s.Tiers {
		if t.Name == "" {
			return fmt.Errorf("schema %q: tier %d has no name", s.Name, i)
		}
		if t.IntervalNs == 0 {
			return fmt.Errorf("schema %q: tier %q has zero interval_ns", s.Name, t.Name)
		}
		if t.SlotCount == 0 {
			return fmt.Errorf("schema %q: tier %q has zero slot_count", s.Name, t.Name)
		}
		if t.MaxSeries == 0 {
			return fmt.Errorf("schema %q: tier %q has zero max_series", s.Name, t.Name)
		}
		if i > 0 {
			prev := s.Tiers[i-1]
			if t.Func == types.FuncNone {
				return fmt.Errorf("schema %q: tier %q needs a consolidation function, only tier 0 may omit one", s.Name, t.Name)
			}
			if t.IntervalNs <= prev.IntervalNs {
				return fmt.Errorf("schema %q: tier %q interval_ns (%d) must exceed predecessor tier %q (%d)", s.Name, t.Name, t.IntervalNs, prev.Name, prev.IntervalNs)
			}
		}
	}
	return nil
}

// TierByName finds a tier by name, used by consolidation to resolve
// source/dest pairs declared in configuration.
func (s Schema) TierByName(name string) (Tier, int, bool) {
	for i, t := range s.Tiers {
		if t.Name == name {
			return t, i, true
		}
	}
	return Tier{}, 0, false
}
