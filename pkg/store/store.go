// Package store is rondo's facade: it wires together pkg/schema,
// pkg/storage, pkg/series, pkg/ring, pkg/query, pkg/consolidate, and
// pkg/export into the one thing a caller opens, writes to, queries, and
// eventually closes.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rondohq/rondo/pkg/consolidate"
	"github.com/rondohq/rondo/pkg/events"
	"github.com/rondohq/rondo/pkg/export"
	"github.com/rondohq/rondo/pkg/log"
	"github.com/rondohq/rondo/pkg/metrics"
	"github.com/rondohq/rondo/pkg/query"
	"github.com/rondohq/rondo/pkg/ring"
	"github.com/rondohq/rondo/pkg/schema"
	"github.com/rondohq/rondo/pkg/series"
	"github.com/rondohq/rondo/pkg/storage"
	"github.com/rondohq/rondo/pkg/types"
	"github.com/rs/zerolog"
)

// Config is what Open needs to bring up a store: where its data lives on
// disk and the schemas it should open or create.
type Config struct {
	DataDir string
	Schemas []schema.Schema
}

type schemaState struct {
	schema   schema.Schema
	dir      string
	registry *series.Registry
	tiers    []query.TierSlab
}

// Store is an open rondo engine: one or more schemas, each with its tier
// cascade mmap'd and its series registry loaded.
type Store struct {
	dataDir string
	schemas []*schemaState
	byName  map[string]int

	consolidation *consolidate.Cursors
	drainCursors  *export.Cursors
	broker        *events.Broker

	logger zerolog.Logger
	mu     sync.Mutex
}

func tierSlabPath(dir string, tier schema.Tier) string {
	return filepath.Join(dir, tier.Name+".slab")
}

func seriesIndexPath(dir string) string { return filepath.Join(dir, "series_index.bin") }
func metaPath(dir string) string        { return filepath.Join(dir, "meta.json") }
func consolidationCursorsPath(dataDir string) string {
	return filepath.Join(dataDir, "consolidation_cursors.json")
}
func exportCursorsPath(dataDir string) string {
	return filepath.Join(dataDir, "export_cursors.json")
}

// Open brings up a store: creates dataDir if needed, and for each schema
// in cfg either opens its existing meta.json/slabs/series index or
// creates them fresh. A schema whose on-disk meta.json disagrees with the
// one passed in Config fails Open rather than silently picking a side —
// callers that intend to change a schema's declaration are expected to
// archive the old data first.
func Open(cfg Config) (*Store, error) {
	logger := log.WithComponent("store")

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("store: create data dir %s: %w", cfg.DataDir, err)
	}

	st := &Store{
		dataDir:       cfg.DataDir,
		byName:        make(map[string]int),
		consolidation: consolidate.NewCursors(),
		drainCursors:  export.NewCursors(),
		broker:        events.NewBroker(),
		logger:        logger,
	}
	st.broker.Start()

	if err := st.consolidation.Load(consolidationCursorsPath(cfg.DataDir)); err != nil {
		return nil, err
	}
	if err := st.drainCursors.Load(exportCursorsPath(cfg.DataDir)); err != nil {
		return nil, err
	}

	for i, s := range cfg.Schemas {
		if err := s.Validate(); err != nil {
			st.closeOpened()
			return nil, err
		}
		state, err := openSchema(cfg.DataDir, s, i)
		if err != nil {
			st.closeOpened()
			return nil, err
		}
		st.schemas = append(st.schemas, state)
		st.byName[s.Name] = i
		logger.Info().Str("schema", s.Name).Int("tiers", len(s.Tiers)).Msg("schema opened")
	}

	return st, nil
}

func openSchema(dataDir string, s schema.Schema, index int) (*schemaState, error) {
	dir := filepath.Join(dataDir, s.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("store: create schema dir %s: %w", dir, err)
	}

	if _, err := os.Stat(metaPath(dir)); err == nil {
		onDisk, err := schema.LoadMeta(metaPath(dir))
		if err != nil {
			return nil, err
		}
		if onDisk.Hash() != s.Hash() {
			return nil, fmt.Errorf("store: schema %q on disk does not match configured declaration: %w", s.Name, storage.ErrSchemaMismatch)
		}
	} else if err := schema.SaveMeta(metaPath(dir), s); err != nil {
		return nil, err
	}

	hash := s.Hash()
	state := &schemaState{schema: s, dir: dir, registry: series.NewRegistry(index)}

	for _, tier := range s.Tiers {
		path := tierSlabPath(dir, tier)
		var slab *storage.Slab
		var err error
		if _, statErr := os.Stat(path); statErr == nil {
			slab, err = storage.Open(path, hash)
		} else {
			slab, err = storage.Create(path, tier.SlotCount, tier.MaxSeries, tier.IntervalNs, hash)
		}
		if err != nil {
			return nil, fmt.Errorf("store: schema %q tier %q: %w", s.Name, tier.Name, err)
		}
		state.tiers = append(state.tiers, query.TierSlab{Tier: tier, Slab: slab})
	}

	if err := state.registry.Load(seriesIndexPath(dir)); err != nil {
		return nil, err
	}

	return state, nil
}

func (st *Store) closeOpened() {
	for _, s := range st.schemas {
		for _, ts := range s.tiers {
			ts.Slab.Close()
		}
	}
	st.broker.Stop()
}

func (st *Store) schemaByName(name string) (*schemaState, error) {
	idx, ok := st.byName[name]
	if !ok {
		return nil, fmt.Errorf("store: %q: %w", name, ErrUnknownSchema)
	}
	return st.schemas[idx], nil
}

// Register admits labels into schema, returning the handle record()
// needs. Registration is idempotent — the same canonical label set
// always resolves to the same handle — and rejects label sets the
// schema's matcher does not admit.
func (st *Store) Register(schemaName string, pairs []types.Label) (types.SeriesHandle, error) {
	state, err := st.schemaByName(schemaName)
	if err != nil {
		return types.SeriesHandle{}, err
	}

	labels, err := types.Canonicalize(pairs)
	if err != nil {
		return types.SeriesHandle{}, err
	}
	if !state.schema.Matcher.Matches(labels) {
		return types.SeriesHandle{}, fmt.Errorf("store: schema %q: %w", schemaName, ErrLabelsRejected)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	handle, err := state.registry.Register(labels, func() (uint32, error) {
		return allocateAcrossTiers(state.tiers)
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(schemaName, "rejected").Inc()
		st.broker.Publish(&events.Event{
			Type:     events.EventSeriesFull,
			Message:  fmt.Sprintf("schema %s: series directory full", schemaName),
			Metadata: map[string]string{"schema": schemaName},
		})
		return types.SeriesHandle{}, err
	}

	if err := state.registry.Save(seriesIndexPath(state.dir)); err != nil {
		return types.SeriesHandle{}, err
	}

	metrics.RegistrationsTotal.WithLabelValues(schemaName, "ok").Inc()
	st.broker.Publish(&events.Event{
		Type:    events.EventSeriesRegistered,
		Message: fmt.Sprintf("series registered in schema %s", schemaName),
		Metadata: map[string]string{
			"schema": schemaName,
			"column": fmt.Sprint(handle.Column),
		},
	})
	return handle, nil
}

// allocateAcrossTiers reserves the same column in every tier of a schema,
// since a series' column number must stay identical across its whole
// cascade for consolidation to find the right source/dest pair.
func allocateAcrossTiers(tiers []query.TierSlab) (uint32, error) {
	if len(tiers) == 0 {
		return 0, fmt.Errorf("store: schema has no tiers")
	}
	column, err := tiers[0].Slab.AllocateColumn()
	if err != nil {
		return 0, err
	}
	for _, ts := range tiers[1:] {
		c, err := ts.Slab.AllocateColumn()
		if err != nil {
			return 0, err
		}
		if c != column {
			return 0, fmt.Errorf("store: tier %q allocated column %d, expected %d (tiers out of sync)", ts.Tier.Name, c, column)
		}
	}
	return column, nil
}

// Record writes one point to a series' highest-resolution tier. It is
// the hot path: no locks beyond what storage.Slab.Write itself takes, no
// logging, no metrics, no allocation.
func (st *Store) Record(handle types.SeriesHandle, ts uint64, value float64) {
	st.schemas[handle.SchemaIndex].tiers[0].Slab.Write(handle.Column, ts, value)
}

// RecordBatch writes a batch of points in one call, then updates
// RecordsTotal once for the whole batch rather than once per point —
// the batched-metrics boundary described in pkg/metrics.
func (st *Store) RecordBatch(handle types.SeriesHandle, points []ring.Point) {
	state := st.schemas[handle.SchemaIndex]
	tier0 := state.tiers[0]
	for _, p := range points {
		tier0.Slab.Write(handle.Column, p.Timestamp, p.Value)
	}
	metrics.RecordsTotal.WithLabelValues(state.schema.Name, tier0.Tier.Name).Add(float64(len(points)))
}

// Add accumulates delta into whatever value is already stored at ts's
// slot in the highest-resolution tier, or starts fresh at delta if that
// slot's timestamp doesn't already equal ts. It is rondo's counter
// primitive, for callers recording monotonically increasing totals
// rather than point-in-time gauges.
func (st *Store) Add(handle types.SeriesHandle, ts uint64, delta float64) {
	tier0 := st.schemas[handle.SchemaIndex].tiers[0].Slab
	slot := uint32((ts / tier0.IntervalNs()) % uint64(tier0.SlotCount()))
	current := 0.0
	if tier0.TimestampAt(slot) == ts {
		if v := tier0.ValueAt(handle.Column, slot); !isNaN(v) {
			current = v
		}
	}
	tier0.Write(handle.Column, ts, current+delta)
}

func isNaN(f float64) bool { return f != f }

// QueryRange reads [start, end] (both ends inclusive) from one named
// tier of schemaName.
func (st *Store) QueryRange(schemaName, tierName string, column uint32, start, end uint64) ([]ring.Point, error) {
	state, err := st.schemaByName(schemaName)
	if err != nil {
		return nil, err
	}
	timer := metrics.NewTimer()
	points, err := query.Range(state.tiers, tierName, column, start, end)
	timer.ObserveDurationVec(metrics.QueryDuration, schemaName, tierName)
	return points, err
}

// QueryAuto reads [start, end] (both ends inclusive) from whichever
// tier of schemaName best covers the window, per pkg/query's
// tier-selection rule.
func (st *Store) QueryAuto(schemaName string, column uint32, start, end uint64) ([]ring.Point, schema.Tier, error) {
	state, err := st.schemaByName(schemaName)
	if err != nil {
		return nil, schema.Tier{}, err
	}
	timer := metrics.NewTimer()
	points, tier, err := query.Auto(state.tiers, column, start, end)
	timer.ObserveDurationVec(metrics.QueryDuration, schemaName, tier.Name)
	return points, tier, err
}

// Consolidate runs one sweep of every tier-to-tier edge in schemaName's
// cascade, for every currently registered series. Each edge's sweep
// horizon is the source tier's own newest timestamp (the value at its
// write_cursor slot), not wall-clock time — a source tier that hasn't
// been written to recently simply produces no new windows, rather than
// Sweep walking empty windows all the way up to the present.
func (st *Store) Consolidate(schemaName string) error {
	state, err := st.schemaByName(schemaName)
	if err != nil {
		return err
	}

	for i := 1; i < len(state.tiers); i++ {
		source := state.tiers[i-1]
		dest := state.tiers[i]
		key := consolidate.CursorKey{Schema: schemaName, Source: source.Tier.Name, Dest: dest.Tier.Name}
		startCursor := st.consolidation.Get(key)
		newestSourceTs := source.Slab.TimestampAt(source.Slab.WriteCursor())

		// Every series sweeps from the same startCursor: the cursor is
		// shared across the whole (schema, source, dest) edge, not
		// per-series, so advancing it mid-loop would starve every
		// series after the first of its windows. Since window
		// alignment depends only on startCursor and newestSourceTs
		// (never on a series' own data), every entry converges on the
		// same resulting cursor.
		timer := metrics.NewTimer()
		totalWindows := 0
		cursor := startCursor
		for _, entry := range state.registry.List() {
			pair := consolidate.Pair{Source: source.Tier, SourceSlab: source.Slab, Dest: dest.Tier, DestSlab: dest.Slab}
			newCursor, windows := consolidate.Sweep(pair, entry.Column, startCursor, newestSourceTs)
			cursor = newCursor
			totalWindows += windows
		}
		timer.ObserveDuration(metrics.ConsolidationDuration)

		st.consolidation.Set(key, cursor)
		metrics.ConsolidationWindowsTotal.WithLabelValues(schemaName, source.Tier.Name, dest.Tier.Name).Add(float64(totalWindows))
		st.logger.Debug().Str("schema", schemaName).Str("source", source.Tier.Name).Str("dest", dest.Tier.Name).Int("windows", totalWindows).Msg("consolidation sweep")

		st.broker.Publish(&events.Event{
			Type:    events.EventConsolidationRun,
			Message: fmt.Sprintf("consolidated %s: %s -> %s", schemaName, source.Tier.Name, dest.Tier.Name),
			Metadata: map[string]string{
				"schema": schemaName, "source_tier": source.Tier.Name, "dest_tier": dest.Tier.Name,
				"windows": fmt.Sprint(totalWindows),
			},
		})
	}

	return st.consolidation.Save(consolidationCursorsPath(st.dataDir))
}

// DrainResult is one series' worth of newly available points for a
// destination's Drain call.
type DrainResult struct {
	Column uint32
	Labels types.Labels
	Points []ring.Point
}

// Drain returns every point written since destination's last Drain call
// against (schemaName, tierName), across every registered series, and
// advances destination's persisted cursor. The upper bound is the
// tier's own newest timestamp (its write_cursor slot), matching
// Consolidate rather than wall-clock time.
func (st *Store) Drain(schemaName, tierName, destination string) ([]DrainResult, error) {
	state, err := st.schemaByName(schemaName)
	if err != nil {
		return nil, err
	}
	tier, ok := findTier(state.tiers, tierName)
	if !ok {
		return nil, fmt.Errorf("store: schema %q: %w", schemaName, fmt.Errorf("%q: %w", tierName, ErrUnknownTier))
	}

	key := export.CursorKey{Schema: schemaName, Tier: tierName, Destination: destination}
	since := st.drainCursors.Get(key)
	nowNs := tier.Slab.TimestampAt(tier.Slab.WriteCursor())

	var results []DrainResult
	maxCursor := since
	totalPoints := 0
	for _, entry := range state.registry.List() {
		points, newCursor := export.Drain(tier.Slab, entry.Column, since, nowNs)
		if len(points) == 0 {
			continue
		}
		results = append(results, DrainResult{Column: entry.Column, Labels: entry.Labels, Points: points})
		totalPoints += len(points)
		if newCursor > maxCursor {
			maxCursor = newCursor
		}
	}

	if maxCursor != since {
		st.drainCursors.Set(key, maxCursor)
		if err := st.drainCursors.Save(exportCursorsPath(st.dataDir)); err != nil {
			return nil, err
		}
		metrics.DrainPointsTotal.WithLabelValues(schemaName, tierName, destination).Add(float64(totalPoints))
		st.broker.Publish(&events.Event{
			Type:    events.EventDrainCompleted,
			Message: fmt.Sprintf("drained %d points from %s/%s for %s", totalPoints, schemaName, tierName, destination),
			Metadata: map[string]string{
				"schema": schemaName, "tier": tierName, "destination": destination,
				"points": fmt.Sprint(totalPoints),
			},
		})
	}

	return results, nil
}

func findTier(tiers []query.TierSlab, name string) (query.TierSlab, bool) {
	for _, ts := range tiers {
		if ts.Tier.Name == name {
			return ts, true
		}
	}
	return query.TierSlab{}, false
}

// ListSeries returns every registered series for schemaName.
func (st *Store) ListSeries(schemaName string) ([]series.Entry, error) {
	state, err := st.schemaByName(schemaName)
	if err != nil {
		return nil, err
	}
	return state.registry.List(), nil
}

// Subscribe returns a channel of internal events (registration,
// consolidation, drain) — see pkg/events.
func (st *Store) Subscribe() events.Subscriber { return st.broker.Subscribe() }

// Unsubscribe releases a subscription returned by Subscribe.
func (st *Store) Unsubscribe(sub events.Subscriber) { st.broker.Unsubscribe(sub) }

// Sync flushes every open slab to disk.
func (st *Store) Sync() error {
	for _, s := range st.schemas {
		for _, ts := range s.tiers {
			if err := ts.Slab.Sync(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close persists every schema's registry, saves cursor state, closes
// every slab, and stops the event broker.
func (st *Store) Close() error {
	for _, s := range st.schemas {
		if err := s.registry.Save(seriesIndexPath(s.dir)); err != nil {
			return err
		}
		for _, ts := range s.tiers {
			if err := ts.Slab.Close(); err != nil {
				return err
			}
		}
	}
	if err := st.consolidation.Save(consolidationCursorsPath(st.dataDir)); err != nil {
		return err
	}
	if err := st.drainCursors.Save(exportCursorsPath(st.dataDir)); err != nil {
		return err
	}
	st.broker.Stop()
	return nil
}

// SchemaNames implements metrics.StatSource.
func (st *Store) SchemaNames() []string {
	names := make([]string, len(st.schemas))
	for i, s := range st.schemas {
		names[i] = s.schema.Name
	}
	return names
}

// SeriesCount implements metrics.StatSource.
func (st *Store) SeriesCount(schemaName string) int {
	state, err := st.schemaByName(schemaName)
	if err != nil {
		return 0
	}
	return state.registry.Count()
}

// SeriesCap implements metrics.StatSource.
func (st *Store) SeriesCap(schemaName string) int {
	state, err := st.schemaByName(schemaName)
	if err != nil || len(state.tiers) == 0 {
		return 0
	}
	return int(state.tiers[0].Tier.MaxSeries)
}
