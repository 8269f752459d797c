package resolver

import "time"

// Config tunes resolver behavior (spec.md §6 "Configuration enumerated").
type Config struct {
	MaxHops          int
	MaxRoutesPerDest int
	MaxRoutesGlobal  int

	GraceTimeout   time.Duration // wait for graph readiness before NoRoute (§4.5 "up to 40s")
	GracePoll      time.Duration
	HorizonTimeout time.Duration // per-call Horizon enrichment timeout, default 10s
}

// DefaultConfig returns the resolver's default tuning values.
func DefaultConfig() Config {
	return Config{
		MaxHops:          4,
		MaxRoutesPerDest: 5,
		MaxRoutesGlobal:  20,
		GraceTimeout:     40 * time.Second,
		GracePoll:        200 * time.Millisecond,
		HorizonTimeout:   10 * time.Second,
	}
}
