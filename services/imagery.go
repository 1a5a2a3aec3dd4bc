package services

import (
	"context"

	"gorm.io/gorm"

	"surveyserver/db"
	"surveyserver/models"
)

type ImageryFilter struct {
	SurveyID     *uint
	Kind         *models.ImageryKind
	Level        *int
	CustomMarker *string
}

func (s *Service) ListImagery(ctx context.Context, opts db.ListOptions, filter ImageryFilter) ([]models.Imagery, error) {
	tx := s.read(ctx)
	if filter.SurveyID != nil {
		if err := db.Require[models.Survey](tx, *filter.SurveyID, "survey_id"); err != nil {
			return nil, err
		}
	}
	scopes := whereEq(nil, "survey_id", filter.SurveyID)
	scopes = whereEq(scopes, "kind", filter.Kind)
	scopes = whereEq(scopes, "level", filter.Level)
	scopes = whereEq(scopes, "custom_marker", filter.CustomMarker)
	return db.List[models.Imagery](tx, opts, scopes...)
}

func (s *Service) CreateImagery(ctx context.Context, imagery *models.Imagery) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if err := db.Require[models.Survey](tx, imagery.SurveyID, "survey_id"); err != nil {
			return err
		}
		return db.Create(tx, imagery)
	})
}

func (s *Service) UpdateImagery(ctx context.Context, id uint, update *models.ImageryUpdate) (*models.Imagery, error) {
	var imagery *models.Imagery
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if imagery, err = db.Get[models.Imagery](tx, id); err != nil {
			return err
		}
		update.Apply(imagery)
		return db.Update(tx, imagery)
	})
	return imagery, err
}

// DeleteImagery removes every hotspot placed in or leading to the item, then the item and its files
func (s *Service) DeleteImagery(ctx context.Context, id uint) error {
	queued := 0
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		imagery, err := db.Get[models.Imagery](tx, id)
		if err != nil {
			return err
		}
		if _, err = db.DeleteWhere[models.Hotspot](tx, db.Where("source_imagery_id = ? OR destination_imagery_id = ?", id, id)); err != nil {
			return err
		}
		if queued, err = queueFiles(tx, imagery.FilePath(), imagery.ThumbPath()); err != nil {
			return err
		}
		return db.Delete[models.Imagery](tx, id)
	})
	if err != nil {
		return err
	}
	s.filesQueued(queued)
	return nil
}

// SetImageryFile points the item at a newly stored image and queues the old image and thumbnail
func (s *Service) SetImageryFile(ctx context.Context, id uint, originalName, storedName string) (*models.Imagery, error) {
	var imagery *models.Imagery
	queued := 0
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if imagery, err = db.Get[models.Imagery](tx, id); err != nil {
			return err
		}
		if queued, err = queueFiles(tx, imagery.FilePath(), imagery.ThumbPath()); err != nil {
			return err
		}
		imagery.OriginalFilename = &originalName
		imagery.StoredFilename = &storedName
		return db.Update(tx, imagery)
	})
	if err != nil {
		return nil, err
	}
	s.filesQueued(queued)
	return imagery, nil
}
