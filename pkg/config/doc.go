/*
Package config loads a rondo deployment's schema declarations from YAML,
the same apply-a-manifest style the rest of this corpus uses for
declarative configuration, adapted here to a single flat list instead of
a Kubernetes-style resource document.

# Format

	schemas:
	  - name: vm_cpu
	    matcher:
	      kind: present
	      key: vm_id
	    tiers:
	      - name: raw
	        interval_ms: 1000
	        slot_count: 3600
	        max_series: 10000
	      - name: 5m
	        interval_ms: 300000
	        slot_count: 2016
	        max_series: 10000
	        consolidation: average

matcher.kind is one of "any", "exact", "present", or "all" (with a
children list of nested matchers). consolidation is one of "average",
"min", "max", "last", "sum", "count", or omitted for tier 0.

# Usage

	schemas, err := config.LoadSchemas("/etc/rondo/schemas.yaml")
	st, err := store.Open(store.Config{DataDir: "/var/lib/rondo", Schemas: schemas})
*/
package config
