// Package processing runs the background work around stored files: thumbnails, image checks
// and removal of files whose records were deleted or replaced.
package processing

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"surveyserver/logger"
	"surveyserver/metrics"
	"surveyserver/models"
	"surveyserver/storage"
)

const (
	sweepBatchSize = 100
	// Rows failing this many times are left for an operator to look at
	maxSweepAttempts = 10
	maxErrorLength   = 500
)

type SweepResult struct {
	Deleted int
	Failed  int
}

// FileSweeper deletes the files queued in FileDeletion, on a schedule and whenever notified
type FileSweeper struct {
	DB      *gorm.DB
	Storage storage.StorageAPI
	Log     *logger.Logger
	cron    *cron.Cron
	running sync.Mutex
	pending atomic.Bool
}

func NewFileSweeper(db *gorm.DB, store storage.StorageAPI, log *logger.Logger) *FileSweeper {
	if log == nil {
		log = logger.Nop()
	}
	return &FileSweeper{DB: db, Storage: store, Log: log.With("component", "file-sweeper")}
}

// Start schedules a sweep using a robfig/cron spec, e.g. "@every 1m"
func (s *FileSweeper) Start(schedule string) error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(schedule, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	s.Log.Info("File sweeper started", "schedule", schedule)
	// Pick up anything left over from a previous run
	s.Notify()
	return nil
}

// Stop waits for a running scheduled sweep to finish
func (s *FileSweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// Notify starts a sweep in the background. A notification arriving during a sweep
// makes that sweep run again once it finishes.
func (s *FileSweeper) Notify() {
	go s.runOnce()
}

func (s *FileSweeper) runOnce() {
	s.pending.Store(true)
	for {
		if !s.running.TryLock() {
			return
		}
		for s.pending.Swap(false) {
			if _, err := s.Sweep(context.Background()); err != nil {
				s.Log.Error("File sweep failed", "error", err)
			}
		}
		s.running.Unlock()
		if !s.pending.Load() {
			return
		}
	}
}

// Sweep processes every queued deletion once. Files already gone count as deleted.
func (s *FileSweeper) Sweep(ctx context.Context) (result SweepResult, err error) {
	lastID := uint(0)
	for {
		batch := []models.FileDeletion{}
		err = s.DB.WithContext(ctx).
			Where("id > ? AND attempts < ?", lastID, maxSweepAttempts).
			Order("id").Limit(sweepBatchSize).
			Find(&batch).Error
		if err != nil {
			return result, err
		}
		for i := range batch {
			if err = s.sweepOne(ctx, &batch[i]); err != nil {
				result.Failed++
				continue
			}
			result.Deleted++
		}
		if len(batch) < sweepBatchSize {
			break
		}
		lastID = batch[len(batch)-1].ID
	}
	if result.Deleted > 0 || result.Failed > 0 {
		s.Log.Info("File sweep done", "deleted", result.Deleted, "failed", result.Failed)
	}
	return result, nil
}

func (s *FileSweeper) sweepOne(ctx context.Context, deletion *models.FileDeletion) error {
	err := s.Storage.Delete(deletion.Path)
	if err == nil || errors.Is(err, storage.ErrFileNotFound) {
		if err := s.DB.WithContext(ctx).Delete(deletion).Error; err != nil {
			metrics.FilesSweptTotal.WithLabelValues("failed").Inc()
			return err
		}
		metrics.FilesSweptTotal.WithLabelValues("deleted").Inc()
		return nil
	}
	metrics.FilesSweptTotal.WithLabelValues("failed").Inc()
	s.Log.Warn("Cannot delete stored file", "path", deletion.Path, "attempt", deletion.Attempts+1, "error", err)

	message := err.Error()
	if len(message) > maxErrorLength {
		message = message[:maxErrorLength]
	}
	updateErr := s.DB.WithContext(ctx).Model(deletion).Updates(map[string]interface{}{
		"attempts":   deletion.Attempts + 1,
		"last_error": message,
	}).Error
	if updateErr != nil {
		s.Log.Error("Cannot record file deletion failure", "id", deletion.ID, "error", updateErr)
	}
	return err
}
