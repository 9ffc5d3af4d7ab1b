/*
Package maintenance is optional sugar around the two operations rondo
deliberately leaves caller-driven: consolidation and drain. Nothing in
pkg/store consolidates or drains on a background goroutine — a host decides when
sweeps happen, whether that's a ticker from this package, a cron
entry, or a call from its own request path.

# ConsolidationScheduler

Sweeps every schema (or a named subset) on a fixed interval. A missed or
slow sweep is never lost data: Sweep's cursor only advances past windows
it actually wrote, so the next tick picks up wherever the last one left
off.

# DrainScheduler

Drains one (schema, tier) for one destination on a fixed interval,
handing each non-empty batch to a callback. Matches pkg/export's
at-least-once contract: a destination that falls behind just gets a
bigger batch next tick, it never skips data.

# Usage

	sched := maintenance.NewConsolidationScheduler(st, 30*time.Second)
	sched.Start()
	defer sched.Stop()

	drain := maintenance.NewDrainScheduler(st, "vm_cpu", "raw", "remote-write", 10*time.Second,
	    func(results []store.DrainResult) { forward(results) })
	drain.Start()
	defer drain.Stop()
*/
package maintenance
