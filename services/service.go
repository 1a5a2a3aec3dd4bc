// Package services enforces the survey data rules on top of the generic repository in db.
// Every mutation runs in a single transaction.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"surveyserver/apperr"
	"surveyserver/db"
	"surveyserver/logger"
	"surveyserver/models"
)

// Notifier is told when stored files were queued for deletion
type Notifier interface {
	Notify()
}

type Service struct {
	DB    *gorm.DB
	Log   *logger.Logger
	Files Notifier
}

func New(database *gorm.DB, log *logger.Logger, files Notifier) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{DB: database, Log: log, Files: files}
}

func (s *Service) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.DB.WithContext(ctx).Transaction(fn)
}

func (s *Service) read(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}

// filesQueued must only be called after the queueing transaction committed
func (s *Service) filesQueued(count int) {
	if count > 0 && s.Files != nil {
		s.Files.Notify()
	}
}

// Get loads one entity by id
func Get[T any, P db.EntityPtr[T]](ctx context.Context, s *Service, id uint) (*T, error) {
	return db.Get[T, P](s.read(ctx), id)
}

// List lists entities of one table without a parent filter
func List[T any, P db.EntityPtr[T]](ctx context.Context, s *Service, opts db.ListOptions, scopes ...db.Scope) ([]T, error) {
	return db.List[T, P](s.read(ctx), opts, scopes...)
}

// reference loads the entity an id field points to. A miss is a NotFound naming field.
func reference[T any, P db.EntityPtr[T]](tx *gorm.DB, id uint, field string) (*T, error) {
	item, err := db.Get[T, P](tx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.MissingReference(P(new(T)).EntityName(), id, field)
	}
	return item, err
}

// queueFiles records stored paths for the sweeper. Empty paths are skipped.
func queueFiles(tx *gorm.DB, paths ...string) (int, error) {
	queued := 0
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := tx.Create(models.NewFileDeletion(path, db.Now())).Error; err != nil {
			return queued, err
		}
		queued++
	}
	return queued, nil
}

// whereEq appends an equality filter when value is set
func whereEq[V any](scopes []db.Scope, column string, value *V) []db.Scope {
	if value == nil {
		return scopes
	}
	return append(scopes, db.Where(column+" = ?", *value))
}
