package consolidate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// CursorKey identifies one (schema, source tier, dest tier) consolidation
// edge within a cursor file.
type CursorKey struct {
	Schema string `json:"schema"`
	Source string `json:"source"`
	Dest   string `json:"dest"`
}

func (k CursorKey) String() string {
	return fmt.Sprintf("%s/%s->%s", k.Schema, k.Source, k.Dest)
}

type cursorDoc struct {
	Schema string `json:"schema"`
	Source string `json:"source"`
	Dest   string `json:"dest"`
	Cursor uint64 `json:"cursor"`
}

// Cursors is the durable record of how far each consolidation edge has
// advanced, persisted to consolidation_cursors.json. It is safe for
// concurrent use; Sweep callers typically hold one Cursors per store and
// call Get/Set around each Sweep.
type Cursors struct {
	mu   sync.RWMutex
	vals map[CursorKey]uint64
}

// NewCursors returns an empty cursor set.
func NewCursors() *Cursors {
	return &Cursors{vals: make(map[CursorKey]uint64)}
}

// Get returns the persisted cursor for key, or 0 if this edge has never
// been swept.
func (c *Cursors) Get(key CursorKey) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals[key]
}

// Set records the cursor for key. It does not persist by itself — call
// Save once the caller is ready to make the advance durable.
func (c *Cursors) Set(key CursorKey, value uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals[key] = value
}

// Save writes every cursor to path atomically (uuid-suffixed temp file,
// fsync, rename), the same pattern pkg/schema and pkg/series use for
// their own durable state.
func (c *Cursors) Save(path string) error {
	c.mu.RLock()
	docs := make([]cursorDoc, 0, len(c.vals))
	for k, v := range c.vals {
		docs = append(docs, cursorDoc{Schema: k.Schema, Source: k.Source, Dest: k.Dest, Cursor: v})
	}
	c.mu.RUnlock()

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("consolidate: marshal cursors: %w", err)
	}

	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".consolidation_cursors-%s.tmp", uuid.NewString()))
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("consolidate: create temp cursor file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("consolidate: write temp cursor file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("consolidate: fsync temp cursor file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("consolidate: close temp cursor file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("consolidate: rename temp cursor file into place: %w", err)
	}
	return nil
}

// Load reads a consolidation_cursors.json previously written by Save. A
// missing file is not an error — it means nothing has been swept yet.
func (c *Cursors) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("consolidate: read %s: %w", path, err)
	}

	var docs []cursorDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("consolidate: unmarshal %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range docs {
		c.vals[CursorKey{Schema: d.Schema, Source: d.Source, Dest: d.Dest}] = d.Cursor
	}
	return nil
}
