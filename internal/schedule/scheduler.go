// internal/schedule/scheduler.go
package schedule

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler owns the process's recurring tasks. It is constructed, loaded
// with jobs, started, and stopped at teardown. A tick that fires while the
// previous run of the same job is still going is skipped, not queued.
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(logger zerolog.Logger) *Scheduler {
	logger = logger.With().Str("component", "scheduler").Logger()
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
		)),
		logger: logger,
	}
}

// Add registers a job under a cron expression ("0 12 * * *" is noon daily).
func (s *Scheduler) Add(name, spec string, job func(context.Context)) error {
	logger := s.logger.With().Str("job", name).Logger()
	_, err := s.cron.AddFunc(spec, func() {
		logger.Debug().Msg("job started")
		job(context.Background())
		logger.Debug().Msg("job finished")
	})
	if err != nil {
		return fmt.Errorf("add job %q: %w", name, err)
	}
	logger.Info().Str("spec", spec).Msg("job registered")
	return nil
}

// Start begins firing jobs on their cadence.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}
