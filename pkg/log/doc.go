/*
Package log provides structured logging for rondo using zerolog.

The record() and record_batch() hot paths never log — that would violate
the no-allocation, no-syscall contract documented for them. Everything this
package supports is used from cold paths: Open, register, consolidate,
query, and drain.

# Architecture

	┌──────────────────── LOGGING SYSTEM ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │            Global Logger                    │          │
	│  │  - Zerolog instance, initialized via Init() │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │           Configuration                     │          │
	│  │  - Level: debug/info/warn/error             │          │
	│  │  - Format: JSON or console (human)          │          │
	│  │  - Output: stdout, file, or custom writer   │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │         Component Loggers                   │          │
	│  │  - WithComponent("consolidate")             │          │
	│  │  - WithSchema("vm_cpu")                     │          │
	│  │  - WithTier("vm_cpu", 1)                    │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │            Log Output                       │          │
	│  │                                              │          │
	│  │  JSON Format:                               │          │
	│  │  {                                           │          │
	│  │    "level": "info",                         │          │
	│  │    "component": "consolidate",              │          │
	│  │    "schema": "vm_cpu",                      │          │
	│  │    "windows": 60,                           │          │
	│  │    "message": "sweep complete"              │          │
	│  │  }                                           │          │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────┘

# Core Components

Global Logger: package-level zerolog.Logger, initialized once via Init(),
safe for concurrent use from multiple stores in one process.

Log Levels: Debug (window-by-window consolidation detail), Info (sweep and
drain summaries, schema opens), Warn (series near max_series), Error
(slab open failures).

Component Loggers: slab, ring, series, schema, consolidate, query, export,
store, maintenance — one WithComponent child logger per package, further
scoped with WithSchema/WithTier where a log line concerns one (schema, tier).

# Usage

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})
	logger := log.WithComponent("consolidate")
	logger.Info().Str("schema", "vm_cpu").Int("windows", n).Msg("sweep complete")
*/
package log
