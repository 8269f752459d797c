package resolver

import "sync/atomic"

// counters are the process-wide query/hit/miss/failure counters spec.md §5
// calls for ("Shared resources ... Counters are scalar and safe under
// common-sense atomic increment").
type counters struct {
	queries  atomic.Int64
	hits     atomic.Int64
	misses   atomic.Int64
	failures atomic.Int64
}

// Snapshot is a point-in-time read of the counters, exposed via the system
// status endpoint.
type Snapshot struct {
	Queries  int64
	Hits     int64
	Misses   int64
	Failures int64
}

func (c *counters) snapshot() Snapshot {
	return Snapshot{
		Queries:  c.queries.Load(),
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Failures: c.failures.Load(),
	}
}
