package scheduler

import (
	"github.com/robfig/cron/v3"

	"github.com/greenloop/greenloop-backend/internal/logger"
)

// Scheduler owns the cron runner for background jobs.
type Scheduler struct {
	log  *logger.Logger
	cron *cron.Cron
}

func New(baseLog *logger.Logger) *Scheduler {
	return &Scheduler{
		log:  baseLog.With("component", "Scheduler"),
		cron: cron.New(),
	}
}

// AddJob registers a job under a cron spec (e.g. "@hourly").
func (s *Scheduler) AddJob(spec string, job cron.Job) error {
	_, err := s.cron.AddJob(spec, job)
	return err
}

func (s *Scheduler) Start() {
	s.log.Info("Starting scheduler...")
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler stopped")
}
