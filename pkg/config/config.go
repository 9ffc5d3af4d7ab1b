// Package config loads schema declarations from a YAML file, the format
// a host hands rondo at startup instead of building schema.Schema values
// by hand.
package config

import (
	"fmt"
	"os"

	"github.com/rondohq/rondo/pkg/schema"
	"github.com/rondohq/rondo/pkg/types"
	"gopkg.in/yaml.v3"
)

// matcherDoc is the YAML shape of a types.LabelMatcher.
type matcherDoc struct {
	Kind     string       `yaml:"kind"`
	Key      string       `yaml:"key,omitempty"`
	Value    string       `yaml:"value,omitempty"`
	Children []matcherDoc `yaml:"children,omitempty"`
}

func (d matcherDoc) toMatcher() (types.LabelMatcher, error) {
	switch d.Kind {
	case "", "any":
		return types.Any(), nil
	case "exact":
		return types.Exact(d.Key, d.Value), nil
	case "present":
		return types.Present(d.Key), nil
	case "all":
		children := make([]types.LabelMatcher, len(d.Children))
		for i, c := range d.Children {
			m, err := c.toMatcher()
			if err != nil {
				return types.LabelMatcher{}, err
			}
			children[i] = m
		}
		return types.All(children...), nil
	default:
		return types.LabelMatcher{}, fmt.Errorf("config: unknown matcher kind %q", d.Kind)
	}
}

// tierDoc is the YAML shape of a schema.Tier.
type tierDoc struct {
	Name          string `yaml:"name"`
	IntervalMS    int64  `yaml:"interval_ms"`
	SlotCount     uint32 `yaml:"slot_count"`
	MaxSeries     uint32 `yaml:"max_series"`
	Consolidation string `yaml:"consolidation,omitempty"`
}

func (d tierDoc) toTier() (schema.Tier, error) {
	fn := types.FuncNone
	if d.Consolidation != "" {
		var err error
		fn, err = types.ParseConsolidationFunc(d.Consolidation)
		if err != nil {
			return schema.Tier{}, fmt.Errorf("config: tier %q: %w", d.Name, err)
		}
	}
	return schema.Tier{
		Name:       d.Name,
		IntervalNs: uint64(d.IntervalMS) * 1_000_000,
		SlotCount:  d.SlotCount,
		MaxSeries:  d.MaxSeries,
		Func:       fn,
	}, nil
}

// schemaDoc is the YAML shape of one schema.Schema declaration.
type schemaDoc struct {
	Name    string     `yaml:"name"`
	Matcher matcherDoc `yaml:"matcher"`
	Tiers   []tierDoc  `yaml:"tiers"`
}

// document is the top-level YAML shape: a list of schema declarations.
type document struct {
	Schemas []schemaDoc `yaml:"schemas"`
}

// LoadSchemas reads and parses a YAML file of schema declarations,
// returning the schema.Schema values ready to hand to store.Config.
// Each schema is validated before being returned.
func LoadSchemas(path string) ([]schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	schemas := make([]schema.Schema, len(doc.Schemas))
	for i, sd := range doc.Schemas {
		matcher, err := sd.Matcher.toMatcher()
		if err != nil {
			return nil, fmt.Errorf("config: schema %q: %w", sd.Name, err)
		}
		tiers := make([]schema.Tier, len(sd.Tiers))
		for j, td := range sd.Tiers {
			tier, err := td.toTier()
			if err != nil {
				return nil, fmt.Errorf("config: schema %q: %w", sd.Name, err)
			}
			tiers[j] = tier
		}
		s := schema.Schema{Name: sd.Name, Matcher: matcher, Tiers: tiers}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("config: schema %q: %w", sd.Name, err)
		}
		schemas[i] = s
	}
	return schemas, nil
}
