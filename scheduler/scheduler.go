// Package scheduler runs the periodic engine jobs on cron expressions
// (seconds field included).
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/evdnx/gomp/engine"
	"github.com/evdnx/gomp/logger"
)

type Scheduler struct {
	cron *cron.Cron
	eng  *engine.Engine
	log  logger.Logger
}

func New(eng *engine.Engine, log logger.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		eng:  eng,
		log:  log,
	}
}

// RegisterAll wires the profile-snapshot, pair-refresh and archive-flush jobs.
func (s *Scheduler) RegisterAll(profileCron, pairCron, archiveCron string) error {
	if _, err := s.cron.AddFunc(profileCron, func() {
		s.log.Info("profile_snapshot_job")
		s.eng.SnapshotProfiles()
	}); err != nil {
		return fmt.Errorf("register profile job: %w", err)
	}
	if _, err := s.cron.AddFunc(pairCron, func() {
		s.log.Info("pair_snapshot_job")
		s.eng.SnapshotPairs()
	}); err != nil {
		return fmt.Errorf("register pair job: %w", err)
	}
	if _, err := s.cron.AddFunc(archiveCron, func() {
		s.log.Info("archive_flush_job")
		s.eng.FlushArchive()
	}); err != nil {
		return fmt.Errorf("register archive job: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler_started")
}

// Stop halts the cron loop; running jobs finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("scheduler_stopped")
}
