package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"surveyserver/apperr"
	"surveyserver/db"
	"surveyserver/models"
)

var errLatestTaken = errors.New("site already has a latest survey")

type SurveyFilter struct {
	SiteID   *uint
	IsLatest *bool
}

func (s *Service) ListSurveys(ctx context.Context, opts db.ListOptions, filter SurveyFilter) ([]models.Survey, error) {
	tx := s.read(ctx)
	if filter.SiteID != nil {
		if err := db.Require[models.Site](tx, *filter.SiteID, "site_id"); err != nil {
			return nil, err
		}
	}
	scopes := whereEq(nil, "site_id", filter.SiteID)
	scopes = whereEq(scopes, "is_latest", filter.IsLatest)
	return db.List[models.Survey](tx, opts, scopes...)
}

func (s *Service) CreateSurvey(ctx context.Context, survey *models.Survey) error {
	if err := survey.CheckDates(); err != nil {
		return err
	}
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if err := checkSurvey(tx, survey); err != nil {
			return err
		}
		return db.Create(tx, survey)
	})
}

func (s *Service) UpdateSurvey(ctx context.Context, id uint, update *models.SurveyUpdate) (*models.Survey, error) {
	var survey *models.Survey
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if survey, err = db.Get[models.Survey](tx, id); err != nil {
			return err
		}
		update.Apply(survey)
		if err = survey.CheckDates(); err != nil {
			return err
		}
		if err = checkSurvey(tx, survey); err != nil {
			return err
		}
		return db.Update(tx, survey)
	})
	return survey, err
}

// PromoteSurvey makes id the latest survey of its site, clearing the flag on its siblings
func (s *Service) PromoteSurvey(ctx context.Context, id uint) (*models.Survey, error) {
	var survey *models.Survey
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if survey, err = db.Get[models.Survey](tx, id); err != nil {
			return err
		}
		if survey.IsLatest {
			return nil
		}
		err = tx.Model(&models.Survey{}).
			Where("site_id = ? AND id <> ? AND is_latest = ?", survey.SiteID, survey.ID, true).
			Updates(map[string]interface{}{"is_latest": false, "modified": db.Now()}).Error
		if err != nil {
			return err
		}
		survey.IsLatest = true
		return db.Update(tx, survey)
	})
	return survey, err
}

// DeleteSurvey removes the survey with everything recorded in it and queues its stored files
func (s *Service) DeleteSurvey(ctx context.Context, id uint) error {
	queued := 0
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := db.Require[models.Survey](tx, id, ""); err != nil {
			return err
		}
		assetIDs := tx.Model(&models.Asset{}).Select("id").Where("survey_id = ?", id)
		imageryIDs := tx.Model(&models.Imagery{}).Select("id").Where("survey_id = ?", id)

		hotspots, err := db.DeleteWhere[models.Hotspot](tx, db.Where(
			"source_imagery_id IN (?) OR destination_imagery_id IN (?) OR asset_id IN (?)",
			imageryIDs, imageryIDs, assetIDs))
		if err != nil {
			return err
		}
		if _, err = db.DeleteWhere[models.AssetProperty](tx, db.Where("asset_id IN (?)", assetIDs)); err != nil {
			return err
		}
		assets, err := db.DeleteWhere[models.Asset](tx, db.Where("survey_id = ?", id))
		if err != nil {
			return err
		}

		var imagery []models.Imagery
		if err = tx.Where("survey_id = ? AND stored_filename IS NOT NULL", id).Find(&imagery).Error; err != nil {
			return err
		}
		var overlays []models.Overlay
		if err = tx.Where("survey_id = ? AND stored_filename IS NOT NULL", id).Find(&overlays).Error; err != nil {
			return err
		}
		var paths []string
		for i := range imagery {
			paths = append(paths, imagery[i].FilePath(), imagery[i].ThumbPath())
		}
		for i := range overlays {
			paths = append(paths, overlays[i].FilePath())
		}
		if queued, err = queueFiles(tx, paths...); err != nil {
			return err
		}

		if _, err = db.DeleteWhere[models.Imagery](tx, db.Where("survey_id = ?", id)); err != nil {
			return err
		}
		if _, err = db.DeleteWhere[models.Overlay](tx, db.Where("survey_id = ?", id)); err != nil {
			return err
		}
		if err = db.Delete[models.Survey](tx, id); err != nil {
			return err
		}
		s.Log.Debug("Survey deleted", "survey", id, "hotspots", hotspots, "assets", assets, "files", queued)
		return nil
	})
	if err != nil {
		return err
	}
	s.filesQueued(queued)
	return nil
}

// checkSurvey requires the site and allows at most one latest survey per site
func checkSurvey(tx *gorm.DB, survey *models.Survey) error {
	if err := db.Require[models.Site](tx, survey.SiteID, "site_id"); err != nil {
		return err
	}
	if !survey.IsLatest {
		return nil
	}
	others, err := db.Count[models.Survey](tx, db.Where("site_id = ? AND is_latest = ? AND id <> ?", survey.SiteID, true, survey.ID))
	if err != nil {
		return err
	}
	if others > 0 {
		return apperr.ConstraintViolation("survey", survey.ID, "is_latest", errLatestTaken)
	}
	return nil
}
