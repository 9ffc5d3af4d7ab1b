package metrics

import "time"

// StatSource is implemented by a store facade (see pkg/store) to expose the
// cold-path counters the Collector polls on a timer. It is a narrow seam so
// this package never imports pkg/store, which would create an import cycle
// since pkg/store itself records metrics directly on the hot paths.
type StatSource interface {
	// SchemaNames returns every schema declared at Open time, in order.
	SchemaNames() []string
	// SeriesCount returns the number of registered series for a schema.
	SeriesCount(schema string) int
	// SeriesCap returns the configured max_series for a schema.
	SeriesCap(schema string) int
}

// Collector periodically samples a store's cardinality gauges. It is
// optional sugar: register/record_batch/consolidate/query/drain already update
// their own counters and histograms inline as they happen. A host with its
// own scrape loop can call Sample directly and skip Start/Stop entirely.
type Collector struct {
	source StatSource
	stopCh chan struct{}
}

// NewCollector creates a collector bound to a stat source.
func NewCollector(source StatSource) *Collector {
	return &Collector{
		source: source,
		stopCh: make(chan struct{}),
	}
}

// Start begins sampling cardinality gauges once per interval on a background
// goroutine. The core store never starts this itself.
func (c *Collector) Start(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		c.Sample()
		for {
			select {
			case <-ticker.C:
				c.Sample()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector's background goroutine.
func (c *Collector) Stop() {
	close(c.stopCh)
}

// Sample updates the cardinality gauges once.
func (c *Collector) Sample() {
	for _, schema := range c.source.SchemaNames() {
		SeriesTotal.WithLabelValues(schema).Set(float64(c.source.SeriesCount(schema)))
		SeriesCapacity.WithLabelValues(schema).Set(float64(c.source.SeriesCap(schema)))
	}
}
