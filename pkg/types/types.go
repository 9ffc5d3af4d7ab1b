// Package types holds rondo's core data model: labels, label matchers,
// consolidation functions, and the opaque series handle. Everything here is
// a leaf — it imports nothing else in this module — so that both the
// series registry and the schema package can depend on it without
// depending on each other.
package types

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Label is a single key/value pair.
type Label struct {
	Key   string
	Value string
}

// Labels is a canonicalized (sorted by key, deduplicated-checked) label set.
// The zero value is the empty set. Construct one with Canonicalize rather
// than a struct literal so the sort/duplicate invariant always holds.
type Labels []Label

// Canonicalize sorts pairs by key and rejects duplicate keys. The input
// order is not significant; two calls with the same pairs in different
// orders produce identical Labels and therefore the same canonical key.
func Canonicalize(pairs []Label) (Labels, error) {
	out := make(Labels, len(pairs))
	copy(out, pairs)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	for i := 1; i < len(out); i++ {
		if out[i].Key == out[i-1].Key {
			return nil, fmt.Errorf("duplicate label key %q", out[i].Key)
		}
	}
	return out, nil
}

// Get returns the value for key and whether it was present.
func (l Labels) Get(key string) (string, bool) {
	// l is small (typically single-digit label counts) and sorted; linear
	// scan beats a map alloc for this size.
	for _, p := range l {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Key renders the canonical string form used as a registry map key:
// name + sorted "key=value" pairs joined by a separator that cannot occur
// in a label key or value produced by Canonicalize (labels are trusted
// ASCII identifiers in this domain; callers that need binary-safe labels
// should hash this string instead of storing it raw).
func (l Labels) Key(name string) string {
	var b strings.Builder
	b.WriteString(name)
	for _, p := range l {
		b.WriteByte('\x1f')
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}

// MatcherKind is the closed set of ways a LabelMatcher can admit a series.
type MatcherKind int

const (
	// MatchAny admits every series.
	MatchAny MatcherKind = iota
	// MatchExact admits a series whose Key label equals Value exactly.
	MatchExact
	// MatchPresent admits a series that has Key at all, any value.
	MatchPresent
	// MatchAll admits a series that satisfies every child matcher
	// (conjunction). An empty Children list behaves like MatchAny.
	MatchAll
)

// LabelMatcher decides whether a canonical label set belongs to a schema.
// Matcher semantics are part of the schema hash (see pkg/schema), so this
// type and its canonical string form must stay stable across versions.
type LabelMatcher struct {
	Kind     MatcherKind
	Key      string
	Value    string
	Children []LabelMatcher
}

// Any returns a matcher that admits every series.
func Any() LabelMatcher { return LabelMatcher{Kind: MatchAny} }

// Exact returns a matcher requiring label Key to equal Value.
func Exact(key, value string) LabelMatcher {
	return LabelMatcher{Kind: MatchExact, Key: key, Value: value}
}

// Present returns a matcher requiring label Key to be set, any value.
func Present(key string) LabelMatcher {
	return LabelMatcher{Kind: MatchPresent, Key: key}
}

// All returns a conjunction of the given matchers.
func All(children ...LabelMatcher) LabelMatcher {
	return LabelMatcher{Kind: MatchAll, Children: children}
}

// Matches reports whether labels are admitted by m.
func (m LabelMatcher) Matches(labels Labels) bool {
	switch m.Kind {
	case MatchAny:
		return true
	case MatchExact:
		v, ok := labels.Get(m.Key)
		return ok && v == m.Value
	case MatchPresent:
		_, ok := labels.Get(m.Key)
		return ok
	case MatchAll:
		for _, c := range m.Children {
			if !c.Matches(labels) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Canonical renders a deterministic string form used to compute the schema
// hash. It must not change meaning between versions without bumping the
// slab format version, since it feeds into on-disk schema_hash.
func (m LabelMatcher) Canonical() string {
	switch m.Kind {
	case MatchAny:
		return "any()"
	case MatchExact:
		return fmt.Sprintf("eq(%s,%s)", m.Key, m.Value)
	case MatchPresent:
		return fmt.Sprintf("present(%s)", m.Key)
	case MatchAll:
		parts := make([]string, len(m.Children))
		for i, c := range m.Children {
			parts[i] = c.Canonical()
		}
		return "all(" + strings.Join(parts, ",") + ")"
	default:
		return "unknown()"
	}
}

// ConsolidationFunc is the closed set of downsampling functions a tier may
// use when consuming its higher-resolution predecessor.
type ConsolidationFunc int

const (
	// FuncNone marks the highest-resolution tier: it has no consolidation
	// function because nothing feeds it.
	FuncNone ConsolidationFunc = iota
	Average
	Min
	Max
	Last
	Sum
	Count
)

func (f ConsolidationFunc) String() string {
	switch f {
	case FuncNone:
		return "none"
	case Average:
		return "avg"
	case Min:
		return "min"
	case Max:
		return "max"
	case Last:
		return "last"
	case Sum:
		return "sum"
	case Count:
		return "count"
	default:
		return "invalid"
	}
}

// ParseConsolidationFunc parses the Canonical()/String() form, used by the
// YAML config loader and by schema hash validation.
func ParseConsolidationFunc(s string) (ConsolidationFunc, error) {
	switch s {
	case "none":
		return FuncNone, nil
	case "avg", "average":
		return Average, nil
	case "min":
		return Min, nil
	case "max":
		return Max, nil
	case "last":
		return Last, nil
	case "sum":
		return Sum, nil
	case "count":
		return Count, nil
	default:
		return 0, fmt.Errorf("unknown consolidation function %q", s)
	}
}

// Apply aggregates already NaN-filtered samples in ascending source-slot
// order. An empty input means every source sample in the window was NaN
// (or there were none): every function but Count returns NaN for that case,
// Count returns 0. Last picks values[len(values)-1], i.e. the sample at the
// greatest source slot, matching the tie-break rule in the consolidation
// engine's spec.
func (f ConsolidationFunc) Apply(values []float64) float64 {
	if len(values) == 0 {
		if f == Count {
			return 0
		}
		return math.NaN()
	}
	switch f {
	case Average:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values))
	case Min:
		m := values[0]
		for _, v := range values[1:] {
			if v < m {
				m = v
			}
		}
		return m
	case Max:
		m := values[0]
		for _, v := range values[1:] {
			if v > m {
				m = v
			}
		}
		return m
	case Last:
		return values[len(values)-1]
	case Sum:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		return sum
	case Count:
		return float64(len(values))
	default:
		// FuncNone applied to data is a caller bug: the highest-resolution
		// tier never consolidates anything into itself.
		return math.NaN()
	}
}

// SeriesHandle is the opaque, freely copyable token returned by
// registration and required by every hot-path call. It carries just enough
// to re-derive a slab address without re-traversing the series registry;
// it does not borrow from the store and outlives any single query.
type SeriesHandle struct {
	SchemaIndex int
	Column      uint32
}
