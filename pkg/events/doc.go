/*
Package events provides an in-memory event broker for rondo's internal
pub/sub notifications.

Stores that want visibility into what's happening inside a running engine —
without paying for it on the hot path — publish to a Broker from cold-path
operations: register, consolidate, and drain. record() and record_batch()
never publish; that would cost an allocation and a channel send on every
point written, which the no-allocation hot-path contract forbids.

# Architecture

	┌──────────────────── EVENT BROKER ────────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │              Event Broker                   │          │
	│  │  - In-memory message bus                    │          │
	│  │  - Non-blocking publish                     │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │          Event Distribution                 │          │
	│  │                                              │          │
	│  │  Publisher → Event Channel (buffer: 100)    │          │
	│  │       ↓                                      │          │
	│  │  Broadcast Loop                              │          │
	│  │       ↓                                      │          │
	│  │  Subscriber Channels (buffer: 50 each)      │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │           Event Types                       │          │
	│  │                                              │          │
	│  │    - series.registered                      │          │
	│  │    - series.full                             │          │
	│  │    - consolidation.run                       │          │
	│  │    - drain.completed                         │          │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────┘

# Core Components

Event Broker:
  - Central message bus for event distribution
  - Manages subscriber lifecycle
  - Non-blocking publish (buffered channel)
  - Graceful shutdown via stop channel

Event:
  - ID: Unique event identifier
  - Type: one of the four EventType constants
  - Timestamp: when the event occurred
  - Message: human-readable description
  - Metadata: key-value pairs — schema, tier, destination, column, etc.

Subscriber:
  - Channel that receives Event pointers
  - Buffered (50 events) to absorb bursts
  - Created via broker.Subscribe(), closed via broker.Unsubscribe()

# Event Types

EventSeriesRegistered:
  - Published when: a new label set is admitted into a schema
  - Metadata: schema, column

EventSeriesFull:
  - Published when: registration is rejected because max_series is reached
  - Metadata: schema

EventConsolidationRun:
  - Published when: a sweep of one (schema, source tier, dest tier) pair
    finishes, whether or not it produced any windows
  - Metadata: schema, source_tier, dest_tier, windows

EventDrainCompleted:
  - Published when: a destination cursor advances past at least one point
  - Metadata: schema, tier, destination, points

# Usage

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)

	go func() {
		for event := range sub {
			log.Printf("%s: %s", event.Type, event.Message)
		}
	}()

	broker.Publish(&events.Event{
		Type:    events.EventSeriesRegistered,
		Message: "series registered",
		Metadata: map[string]string{
			"schema": "vm_cpu",
			"column": "42",
		},
	})

# Design Patterns

Non-blocking publish: Publish sends to a buffered channel and returns
immediately; a full buffer drops the event rather than stalling the caller.
This favors throughput over guaranteed delivery, appropriate for
observability rather than anything load-bearing.

Fan-out: one event is broadcast to every subscriber's own channel; a slow
subscriber's full buffer skips that event rather than blocking the broker
or other subscribers.

# Limitations

In-memory only, no persistence, no replay, no delivery guarantee, no
ordering guarantee across subscribers. Callers that need a durable audit
trail of registrations or consolidation runs should subscribe and write to
their own log — this package does not do it for them.
*/
package events
