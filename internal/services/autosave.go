package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/courtlog/handball-tracker/internal/models"
	"github.com/courtlog/handball-tracker/pkg/database"
)

// AutosaveService periodically flushes unsaved session changes and
// sweeps old finished matches out of memory and the store.
type AutosaveService struct {
	cron      *cron.Cron
	matches   *MatchService
	db        *database.DB
	logger    *logrus.Logger
	interval  string
	retention time.Duration
}

func NewAutosaveService(matches *MatchService, db *database.DB, interval string, retention time.Duration, logger *logrus.Logger) *AutosaveService {
	if interval == "" {
		interval = "30s"
	}
	return &AutosaveService{
		cron:      cron.New(),
		matches:   matches,
		db:        db,
		logger:    logger,
		interval:  interval,
		retention: retention,
	}
}

// Start schedules the flush and sweep jobs.
func (s *AutosaveService) Start() error {
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		s.matches.FlushDirty()
		s.matches.EvictFinished()
	}); err != nil {
		return fmt.Errorf("failed to schedule autosave: %w", err)
	}

	if s.retention > 0 {
		if _, err := s.cron.AddFunc("0 4 * * *", s.sweepExpired); err != nil {
			return fmt.Errorf("failed to schedule retention sweep: %w", err)
		}
	}

	s.cron.Start()
	s.logger.WithField("interval", s.interval).Info("Autosave started")
	return nil
}

// Stop flushes once more and halts the scheduler.
func (s *AutosaveService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.matches.FlushDirty()
	s.logger.Info("Autosave stopped")
}

// sweepExpired deletes finished sessions older than the retention
// window.
func (s *AutosaveService) sweepExpired() {
	cutoff := time.Now().Add(-s.retention)
	result := s.db.Where("finished = ? AND start_time < ?", true, cutoff).Delete(&models.MatchSession{})
	if result.Error != nil {
		s.logger.Warnf("Retention sweep failed: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		s.logger.Infof("Retention sweep removed %d finished matches", result.RowsAffected)
	}
}
