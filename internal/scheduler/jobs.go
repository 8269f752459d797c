package scheduler

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/stellar/route-engine/internal/graph"
)

// rebuilder is the subset of *graph.Builder the scheduler's jobs depend on.
type rebuilder interface {
	FullRebuild(ctx context.Context) (graph.BuildResult, error)
	LightRefresh(ctx context.Context) (graph.BuildResult, error)
}

// FullRebuildJob triggers a complete graph rebuild (spec.md §4.7 "Full
// rebuild every 30 minutes" and the manual trigger).
type FullRebuildJob struct {
	builder rebuilder
	log     zerolog.Logger
}

// NewFullRebuildJob creates a FullRebuildJob.
func NewFullRebuildJob(builder rebuilder, log zerolog.Logger) *FullRebuildJob {
	return &FullRebuildJob{builder: builder, log: log.With().Str("job", "full_rebuild").Logger()}
}

func (j *FullRebuildJob) Name() string { return "full_rebuild" }

func (j *FullRebuildJob) Run() error {
	result, err := j.builder.FullRebuild(context.Background())
	if err != nil {
		return err
	}
	if result.Skipped {
		j.log.Info().Msg("full rebuild skipped, another build already in progress")
		return nil
	}
	j.log.Info().
		Uint64("version", result.Version).
		Int("nodes", result.NodeCount).
		Int("edges", result.EdgeCount).
		Dur("duration", result.Duration).
		Msg("full rebuild completed")
	return nil
}

// LightRefreshJob re-runs DEX discovery only and overwrites edges in place
// (spec.md §4.7 "Light refresh every 5 minutes").
type LightRefreshJob struct {
	builder rebuilder
	log     zerolog.Logger
}

// NewLightRefreshJob creates a LightRefreshJob.
func NewLightRefreshJob(builder rebuilder, log zerolog.Logger) *LightRefreshJob {
	return &LightRefreshJob{builder: builder, log: log.With().Str("job", "light_refresh").Logger()}
}

func (j *LightRefreshJob) Name() string { return "light_refresh" }

func (j *LightRefreshJob) Run() error {
	result, err := j.builder.LightRefresh(context.Background())
	if err != nil {
		return err
	}
	if result.Skipped {
		j.log.Debug().Msg("light refresh skipped, a build holds the lock")
		return nil
	}
	j.log.Debug().Int("edges", result.EdgeCount).Dur("duration", result.Duration).Msg("light refresh completed")
	return nil
}

// cachePurger is the subset of *cache.Cache the purge job depends on.
type cachePurger interface {
	PurgeExpired()
}

// CachePurgeJob deletes expired persistent cache rows on a timer
// (spec.md §4.6 "A background task periodically deletes expired persistent
// entries").
type CachePurgeJob struct {
	cache cachePurger
	log   zerolog.Logger
}

// NewCachePurgeJob creates a CachePurgeJob.
func NewCachePurgeJob(c cachePurger, log zerolog.Logger) *CachePurgeJob {
	return &CachePurgeJob{cache: c, log: log.With().Str("job", "cache_purge").Logger()}
}

func (j *CachePurgeJob) Name() string { return "cache_purge" }

func (j *CachePurgeJob) Run() error {
	j.cache.PurgeExpired()
	return nil
}
