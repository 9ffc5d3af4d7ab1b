/*
Package metrics provides Prometheus instrumentation for rondo stores.

Instrumentation lives outside the hot path by design. record() and
record_batch() are documented to compile down to two mmap-slot writes with
no allocation and no syscall; a Prometheus counter increment is cheap but
not free, so it does not belong there. Everything this package exposes is
updated from cold paths: register, consolidate, query, and drain. The one
exception is records_total, which record_batch() bumps once per batch.

# Architecture

	┌──────────────────── METRICS SYSTEM ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │          Prometheus Registry                │          │
	│  │  - Global DefaultRegistry                   │          │
	│  │  - MustRegister at package init             │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │           Metric Categories                 │          │
	│  │                                              │          │
	│  │  Registration: series_total, registrations  │          │
	│  │  Hot path (batched): records_total           │          │
	│  │  Consolidation: windows_total, duration      │          │
	│  │  Query: query_duration by schema/tier        │          │
	│  │  Drain: drain_points_total by destination    │          │
	│  │  Storage: slab_bytes per (schema, tier)      │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │          Collector (optional)               │          │
	│  │  - Samples cardinality gauges on a ticker   │          │
	│  │  - Skippable: a host with its own scrape    │          │
	│  │    loop can call Sample() directly          │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │          HTTP Metrics Endpoint               │          │
	│  │  - Handler(): promhttp.Handler()            │          │
	│  │  - Mounting an HTTP server is the host's    │          │
	│  │    job; this package never listens itself   │          │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────┘

# Monitoring

Example PromQL:

  - Cardinality headroom: rondo_series_total / rondo_series_capacity
  - Consolidation rate: rate(rondo_consolidation_windows_total[5m])
  - Drain lag (rough): rate(rondo_drain_points_total[1m])
  - Query p99: histogram_quantile(0.99, rondo_query_duration_seconds_bucket)

# Troubleshooting

Stale metrics: a query/consolidate/drain call path that doesn't touch the
corresponding metric variable; check the call site, not this package.

High cardinality: the only caller-controlled label here is "destination"
on rondo_drain_points_total — bound the number of distinct export
destinations, not the number of series.
*/
package metrics
