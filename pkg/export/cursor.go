package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// CursorKey identifies one destination's drain position within a schema
// and tier.
type CursorKey struct {
	Schema      string `json:"schema"`
	Tier        string `json:"tier"`
	Destination string `json:"destination"`
}

type cursorDoc struct {
	Schema      string `json:"schema"`
	Tier        string `json:"tier"`
	Destination string `json:"destination"`
	Cursor      uint64 `json:"cursor"`
}

// Cursors is the durable record of how far each destination has drained,
// persisted to export_cursors.json.
type Cursors struct {
	mu   sync.RWMutex
	vals map[CursorKey]uint64
}

// NewCursors returns an empty cursor set.
func NewCursors() *Cursors {
	return &Cursors{vals: make(map[CursorKey]uint64)}
}

// Get returns the persisted cursor for key, or 0 if this destination has
// never drained.
func (c *Cursors) Get(key CursorKey) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals[key]
}

// Set records the cursor for key without persisting it.
func (c *Cursors) Set(key CursorKey, value uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals[key] = value
}

// Save writes every cursor to path atomically.
func (c *Cursors) Save(path string) error {
	c.mu.RLock()
	docs := make([]cursorDoc, 0, len(c.vals))
	for k, v := range c.vals {
		docs = append(docs, cursorDoc{Schema: k.Schema, Tier: k.Tier, Destination: k.Destination, Cursor: v})
	}
	c.mu.RUnlock()

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal cursors: %w", err)
	}

	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".export_cursors-%s.tmp", uuid.NewString()))
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("export: create temp cursor file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("export: write temp cursor file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("export: fsync temp cursor file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("export: close temp cursor file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("export: rename temp cursor file into place: %w", err)
	}
	return nil
}

// Load reads an export_cursors.json previously written by Save. A missing
// file is not an error — it means no destination has drained yet.
func (c *Cursors) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("export: read %s: %w", path, err)
	}

	var docs []cursorDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("export: unmarshal %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range docs {
		c.vals[CursorKey{Schema: d.Schema, Tier: d.Tier, Destination: d.Destination}] = d.Cursor
	}
	return nil
}
