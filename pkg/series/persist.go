package series

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/rondohq/rondo/pkg/types"
)

// persistedLabel and persistedEntry mirror Entry in a form gob can encode
// directly — types.Labels already satisfies this without help, but
// spelling it out keeps the on-disk format decoupled from any future
// change to types.Label's field set.
type persistedLabel struct {
	Key   string
	Value string
}

type persistedEntry struct {
	Labels []persistedLabel
	Column uint32
}

// Save writes the registry's entries to path (conventionally
// series_index.bin) atomically: encode to a uuid-suffixed temp file in
// the same directory, fsync it, then rename over the destination.
func (r *Registry) Save(path string) error {
	entries := r.List()
	persisted := make([]persistedEntry, len(entries))
	for i, e := range entries {
		labels := make([]persistedLabel, len(e.Labels))
		for j, l := range e.Labels {
			labels[j] = persistedLabel{Key: l.Key, Value: l.Value}
		}
		persisted[i] = persistedEntry{Labels: labels, Column: e.Column}
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(persisted); err != nil {
		return fmt.Errorf("series: encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".series_index-%s.tmp", uuid.NewString()))
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("series: create temp index file: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("series: write temp index file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("series: fsync temp index file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("series: close temp index file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("series: rename temp index file into place: %w", err)
	}
	return nil
}

// Load reads a series_index.bin previously written by Save and restores
// the registry from it. A missing file is not an error — it means the
// schema has never had a series registered, so Load leaves the registry
// empty.
func (r *Registry) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("series: read %s: %w", path, err)
	}

	var persisted []persistedEntry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&persisted); err != nil {
		return fmt.Errorf("series: decode %s: %w", path, err)
	}

	entries := make([]Entry, len(persisted))
	for i, p := range persisted {
		pairs := make([]types.Label, len(p.Labels))
		for j, l := range p.Labels {
			pairs[j] = types.Label{Key: l.Key, Value: l.Value}
		}
		labels, err := types.Canonicalize(pairs)
		if err != nil {
			return fmt.Errorf("series: %s entry %d: %w", path, i, err)
		}
		entries[i] = Entry{Labels: labels, Column: p.Column}
	}
	r.restore(entries)
	return nil
}
