// Package maintenance runs a store's caller-driven upkeep — consolidation
// sweeps and drain — on a ticker, so a host that doesn't want to wire its
// own scheduler can just start one of these and forget about it.
package maintenance

import (
	"time"

	"github.com/rondohq/rondo/pkg/log"
	"github.com/rondohq/rondo/pkg/store"
)

// ConsolidationScheduler periodically sweeps every schema in a store.
// Nothing about rondo requires this: Store.Consolidate is caller-driven
// by design, and a host with its own cron or workqueue can call it
// directly instead.
type ConsolidationScheduler struct {
	store    *store.Store
	schemas  []string
	interval time.Duration
	stopCh   chan struct{}
}

// NewConsolidationScheduler builds a scheduler that sweeps schemas at
// interval. An empty schemas list sweeps every schema the store reports
// via SchemaNames.
func NewConsolidationScheduler(st *store.Store, interval time.Duration, schemas ...string) *ConsolidationScheduler {
	return &ConsolidationScheduler{
		store:    st,
		schemas:  schemas,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the sweep loop on a background goroutine.
func (s *ConsolidationScheduler) Start() {
	go s.loop()
}

// Stop stops the sweep loop. It does not wait for an in-flight sweep to
// finish.
func (s *ConsolidationScheduler) Stop() {
	close(s.stopCh)
}

func (s *ConsolidationScheduler) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweepOnce()
		case <-s.stopCh:
			return
		}
	}
}

func (s *ConsolidationScheduler) sweepOnce() {
	logger := log.WithComponent("maintenance")
	names := s.schemas
	if len(names) == 0 {
		names = s.store.SchemaNames()
	}

	for _, name := range names {
		if err := s.store.Consolidate(name); err != nil {
			logger.Error().Err(err).Str("schema", name).Msg("consolidation sweep failed")
		}
	}
}

// DrainScheduler periodically drains one (schema, tier) for a fixed
// destination, handing each batch to onBatch. Drain's cursor semantics
// mean a destination that misses a tick just catches up on the next one —
// nothing is lost, only delayed.
type DrainScheduler struct {
	store       *store.Store
	schema      string
	tier        string
	destination string
	interval    time.Duration
	onBatch     func([]store.DrainResult)
	stopCh      chan struct{}
}

// NewDrainScheduler builds a scheduler that calls Store.Drain every
// interval and hands the results to onBatch.
func NewDrainScheduler(st *store.Store, schemaName, tierName, destination string, interval time.Duration, onBatch func([]store.DrainResult)) *DrainScheduler {
	return &DrainScheduler{
		store:       st,
		schema:      schemaName,
		tier:        tierName,
		destination: destination,
		interval:    interval,
		onBatch:     onBatch,
		stopCh:      make(chan struct{}),
	}
}

// Start begins the drain loop on a background goroutine.
func (d *DrainScheduler) Start() {
	go d.loop()
}

// Stop stops the drain loop.
func (d *DrainScheduler) Stop() {
	close(d.stopCh)
}

func (d *DrainScheduler) loop() {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.drainOnce()
		case <-d.stopCh:
			return
		}
	}
}

func (d *DrainScheduler) drainOnce() {
	logger := log.WithComponent("maintenance")
	results, err := d.store.Drain(d.schema, d.tier, d.destination)
	if err != nil {
		logger.Error().Err(err).Str("schema", d.schema).Str("tier", d.tier).Msg("drain failed")
		return
	}
	if len(results) > 0 {
		d.onBatch(results)
	}
}
