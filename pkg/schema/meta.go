package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/rondohq/rondo/pkg/types"
)

// matcherDoc is the JSON-friendly mirror of types.LabelMatcher: Kind is
// spelled out as a string (matching LabelMatcher.Canonical's vocabulary)
// rather than the int MatcherKind, so meta.json stays readable and stable
// across any future reordering of the MatcherKind enum.
type matcherDoc struct {
	Kind     string       `json:"kind"`
	Key      string       `json:"key,omitempty"`
	Value    string       `json:"value,omitempty"`
	Children []matcherDoc `json:"children,omitempty"`
}

func encodeMatcher(m types.LabelMatcher) matcherDoc {
	doc := matcherDoc{Key: m.Key, Value: m.Value}
	switch m.Kind {
	case types.MatchAny:
		doc.Kind = "any"
	case types.MatchExact:
		doc.Kind = "exact"
	case types.MatchPresent:
		doc.Kind = "present"
	case types.MatchAll:
		doc.Kind = "all"
		doc.Children = make([]matcherDoc, len(m.Children))
		for i, c := range m.Children {
			doc.Children[i] = encodeMatcher(c)
		}
	}
	return doc
}

func decodeMatcher(doc matcherDoc) (types.LabelMatcher, error) {
	switch doc.Kind {
	case "any":
		return types.Any(), nil
	case "exact":
		return types.Exact(doc.Key, doc.Value), nil
	case "present":
		return types.Present(doc.Key), nil
	case "all":
		children := make([]types.LabelMatcher, len(doc.Children))
		for i, c := range doc.Children {
			m, err := decodeMatcher(c)
			if err != nil {
				return types.LabelMatcher{}, err
			}
			children[i] = m
		}
		return types.All(children...), nil
	default:
		return types.LabelMatcher{}, fmt.Errorf("schema: unknown matcher kind %q", doc.Kind)
	}
}

type tierDoc struct {
	Name       string `json:"name"`
	IntervalNs uint64 `json:"interval_ns"`
	SlotCount  uint32 `json:"slot_count"`
	MaxSeries  uint32 `json:"max_series"`
	Func       string `json:"func"`
}

type metaDoc struct {
	Name    string     `json:"name"`
	Matcher matcherDoc `json:"matcher"`
	Tiers   []tierDoc  `json:"tiers"`
}

func toDoc(s Schema) metaDoc {
	doc := metaDoc{Name: s.Name, Matcher: encodeMatcher(s.Matcher)}
	doc.Tiers = make([]tierDoc, len(s.Tiers))
	for i, t := range s.Tiers {
		doc.Tiers[i] = tierDoc{
			Name:       t.Name,
			IntervalNs: t.IntervalNs,
			SlotCount:  t.SlotCount,
			MaxSeries:  t.MaxSeries,
			Func:       t.Func.String(),
		}
	}
	return doc
}

func fromDoc(doc metaDoc) (Schema, error) {
	matcher, err := decodeMatcher(doc.Matcher)
	if err != nil {
		return Schema{}, err
	}
	s := Schema{Name: doc.Name, Matcher: matcher, Tiers: make([]Tier, len(doc.Tiers))}
	for i, t := range doc.Tiers {
		fn, err := types.ParseConsolidationFunc(t.Func)
		if err != nil {
			return Schema{}, fmt.Errorf("schema %q tier %q: %w", doc.Name, t.Name, err)
		}
		s.Tiers[i] = Tier{
			Name:       t.Name,
			IntervalNs: t.IntervalNs,
			SlotCount:  t.SlotCount,
			MaxSeries:  t.MaxSeries,
			Func:       fn,
		}
	}
	return s, nil
}

// SaveMeta writes s to path as meta.json, atomically: it marshals to a
// uuid-suffixed temp file in the same directory, fsyncs it, then renames
// over the destination so a reader never observes a partially written file
// and a crash mid-write leaves the old meta.json (if any) intact.
func SaveMeta(path string, s Schema) error {
	data, err := json.MarshalIndent(toDoc(s), "", "  ")
	if err != nil {
		return fmt.Errorf("schema: marshal meta for %q: %w", s.Name, err)
	}

	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".meta-%s.tmp", uuid.NewString()))
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("schema: create temp meta file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("schema: write temp meta file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("schema: fsync temp meta file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("schema: close temp meta file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("schema: rename temp meta file into place: %w", err)
	}
	return nil
}

// LoadMeta reads a meta.json previously written by SaveMeta.
func LoadMeta(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	var doc metaDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Schema{}, fmt.Errorf("schema: unmarshal %s: %w", path, err)
	}
	return fromDoc(doc)
}
