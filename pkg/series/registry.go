// Package series maintains the registry mapping a schema's canonical
// label sets to the slab columns that hold their data. Registration is
// idempotent: the same label set, registered any number of times, always
// resolves to the same types.SeriesHandle.
package series

import (
	"sync"

	"github.com/rondohq/rondo/pkg/types"
)

// Entry is one registered series: its canonical labels and the column it
// was assigned. Column is stable for the lifetime of the schema — it is
// never reassigned, even if the series stops being written to.
type Entry struct {
	Labels types.Labels
	Column uint32
}

// AllocateFunc reserves the next free column in the backing slab(s),
// returning storage.ErrSeriesFull at capacity. Registry depends on it
// rather than on pkg/storage directly so it stays usable against any
// column allocator, including a test fake.
type AllocateFunc func() (uint32, error)

// Registry tracks every series registered against one schema.
type Registry struct {
	schemaIndex int

	mu      sync.RWMutex
	byKey   map[string]types.SeriesHandle
	entries []Entry
}

// NewRegistry creates an empty registry for the schema at schemaIndex —
// the index this schema occupies in the store's schema list, embedded in
// every SeriesHandle this registry hands out.
func NewRegistry(schemaIndex int) *Registry {
	return &Registry{
		schemaIndex: schemaIndex,
		byKey:       make(map[string]types.SeriesHandle),
	}
}

// Register returns the handle for labels, allocating a new column via
// allocate if this exact canonical label set has never been registered
// before. labels must already be canonical (see types.Canonicalize);
// admission against the schema's matcher is the caller's responsibility —
// Register only handles dedup and column assignment.
func (r *Registry) Register(labels types.Labels, allocate AllocateFunc) (types.SeriesHandle, error) {
	key := labels.Key("")

	r.mu.RLock()
	if h, ok := r.byKey[key]; ok {
		r.mu.RUnlock()
		return h, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under the write lock: another goroutine may have
	// registered the same label set while we waited for it.
	if h, ok := r.byKey[key]; ok {
		return h, nil
	}

	column, err := allocate()
	if err != nil {
		return types.SeriesHandle{}, err
	}
	handle := types.SeriesHandle{SchemaIndex: r.schemaIndex, Column: column}
	r.byKey[key] = handle
	r.entries = append(r.entries, Entry{Labels: labels, Column: column})
	return handle, nil
}

// Lookup returns the handle already registered for labels, if any.
func (r *Registry) Lookup(labels types.Labels) (types.SeriesHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byKey[labels.Key("")]
	return h, ok
}

// Count returns the number of registered series.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// List returns every registered entry. The returned slice is a copy; it
// does not alias Registry's internal state.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// restore repopulates the registry from persisted entries, used when
// reopening a schema whose series_index.bin already exists. It does not
// call an AllocateFunc — the columns are already assigned on disk.
func (r *Registry) restore(entries []Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = entries
	r.byKey = make(map[string]types.SeriesHandle, len(entries))
	for _, e := range entries {
		r.byKey[e.Labels.Key("")] = types.SeriesHandle{SchemaIndex: r.schemaIndex, Column: e.Column}
	}
}
