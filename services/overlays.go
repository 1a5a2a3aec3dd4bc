package services

import (
	"context"

	"gorm.io/gorm"

	"surveyserver/db"
	"surveyserver/models"
)

type OverlayFilter struct {
	SurveyID *uint
	Level    *int
}

func (s *Service) ListOverlays(ctx context.Context, opts db.ListOptions, filter OverlayFilter) ([]models.Overlay, error) {
	tx := s.read(ctx)
	if filter.SurveyID != nil {
		if err := db.Require[models.Survey](tx, *filter.SurveyID, "survey_id"); err != nil {
			return nil, err
		}
	}
	scopes := whereEq(nil, "survey_id", filter.SurveyID)
	scopes = whereEq(scopes, "level", filter.Level)
	return db.List[models.Overlay](tx, opts, scopes...)
}

func (s *Service) CreateOverlay(ctx context.Context, overlay *models.Overlay) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if err := db.Require[models.Survey](tx, overlay.SurveyID, "survey_id"); err != nil {
			return err
		}
		return db.Create(tx, overlay)
	})
}

func (s *Service) UpdateOverlay(ctx context.Context, id uint, update *models.OverlayUpdate) (*models.Overlay, error) {
	var overlay *models.Overlay
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if overlay, err = db.Get[models.Overlay](tx, id); err != nil {
			return err
		}
		update.Apply(overlay)
		return db.Update(tx, overlay)
	})
	return overlay, err
}

func (s *Service) DeleteOverlay(ctx context.Context, id uint) error {
	queued := 0
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		overlay, err := db.Get[models.Overlay](tx, id)
		if err != nil {
			return err
		}
		if queued, err = queueFiles(tx, overlay.FilePath()); err != nil {
			return err
		}
		return db.Delete[models.Overlay](tx, id)
	})
	if err != nil {
		return err
	}
	s.filesQueued(queued)
	return nil
}

// SetOverlayFile points the overlay at a newly stored image and queues the one it replaces
func (s *Service) SetOverlayFile(ctx context.Context, id uint, originalName, storedName string) (*models.Overlay, error) {
	var overlay *models.Overlay
	queued := 0
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if overlay, err = db.Get[models.Overlay](tx, id); err != nil {
			return err
		}
		if queued, err = queueFiles(tx, overlay.FilePath()); err != nil {
			return err
		}
		overlay.OriginalFilename = &originalName
		overlay.StoredFilename = &storedName
		return db.Update(tx, overlay)
	})
	if err != nil {
		return nil, err
	}
	s.filesQueued(queued)
	return overlay, nil
}
