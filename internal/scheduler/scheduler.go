// Package scheduler triggers pipeline runs on a cron schedule. There is no
// concurrency to manage beyond the cron goroutine itself: runs are skipped
// if a previous one is still in flight, preserving the one-process-per-run
// assumption the store depends on.
package scheduler

import (
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs a job on a cron spec.
type Scheduler struct {
	cron    *cron.Cron
	log     *logrus.Logger
	running atomic.Bool
}

// New creates a scheduler for the given cron spec and job.
func New(spec string, log *logrus.Logger, job func()) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(),
		log:  log,
	}
	_, err := s.cron.AddFunc(spec, func() {
		if !s.running.CompareAndSwap(false, true) {
			log.Warn("Previous run still in progress, skipping scheduled run")
			return
		}
		defer s.running.Store(false)
		job()
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins scheduling. It returns immediately.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduler started")
}

// Stop stops the scheduler, waiting for a running job is the caller's
// concern.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("Scheduler stopped")
}
