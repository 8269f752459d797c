package scheduler

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// Scheduler manages background jobs: the Graph Scheduler's three timed
// activities (initial build, light refresh, full rebuild) from spec.md
// §4.7, plus the cache-purge background task from §4.6.
type Scheduler struct {
	cron    *cron.Cron
	log     zerolog.Logger
	mu      sync.Mutex
	timer   *time.Timer
	wg      sync.WaitGroup
}

// New creates a new scheduler
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop cancels all timers immediately and waits for any in-flight job
// started via RunAfter/RunNow to complete before returning (spec.md §4.7
// "Timers never block shutdown ... an in-flight build is allowed to
// complete before final termination").
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.timer != nil && s.timer.Stop() {
		// Timer was cancelled before it fired, so its AfterFunc body (and
		// its wg.Done) will never run — account for it here instead.
		s.wg.Done()
	}
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.wg.Wait()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers a new job with cron schedule
// Schedule examples:
//   - "0 */5 * * * *"      - Every 5 minutes
//   - "@hourly"            - Every hour
//   - "0 0 9 * * MON-FRI"  - 9 AM weekdays
//   - "@every 30s"         - Every 30 seconds
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.log.Debug().Str("job", job.Name()).Msg("Running job")

		if err := job.Run(); err != nil {
			s.log.Error().
				Err(err).
				Str("job", job.Name()).
				Msg("Job failed")
		} else {
			s.log.Debug().Str("job", job.Name()).Msg("Job completed")
		}
	})

	if err != nil {
		return err
	}

	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("Job registered")

	return nil
}

// RunNow executes a job immediately (outside schedule)
func (s *Scheduler) RunNow(job Job) error {
	s.wg.Add(1)
	defer s.wg.Done()
	s.log.Info().Str("job", job.Name()).Msg("Running job immediately")
	return job.Run()
}

// RunAfter schedules job to run once after delay, used for the initial
// build after boot (spec.md §4.7 "Initial build after a brief delay (~1s)").
// The timer is tracked so Stop can cancel it before it fires.
func (s *Scheduler) RunAfter(delay time.Duration, job Job) {
	s.wg.Add(1)
	s.mu.Lock()
	s.timer = time.AfterFunc(delay, func() {
		defer s.wg.Done()
		s.log.Info().Str("job", job.Name()).Msg("Running delayed job")
		if err := job.Run(); err != nil {
			s.log.Error().Err(err).Str("job", job.Name()).Msg("Delayed job failed")
		}
	})
	s.mu.Unlock()
}
