package services

import (
	"context"

	"gorm.io/gorm"

	"surveyserver/db"
	"surveyserver/models"
)

type AssetFilter struct {
	SurveyID    *uint
	AssetTypeID *uint
	Level       *int
}

func (s *Service) ListAssets(ctx context.Context, opts db.ListOptions, filter AssetFilter) ([]models.Asset, error) {
	tx := s.read(ctx)
	if filter.SurveyID != nil {
		if err := db.Require[models.Survey](tx, *filter.SurveyID, "survey_id"); err != nil {
			return nil, err
		}
	}
	scopes := whereEq(nil, "survey_id", filter.SurveyID)
	scopes = whereEq(scopes, "asset_type_id", filter.AssetTypeID)
	scopes = whereEq(scopes, "level", filter.Level)
	return db.List[models.Asset](tx, opts, scopes...)
}

func (s *Service) CreateAsset(ctx context.Context, asset *models.Asset) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if err := db.Require[models.Survey](tx, asset.SurveyID, "survey_id"); err != nil {
			return err
		}
		if err := db.Require[models.AssetType](tx, asset.AssetTypeID, "asset_type_id"); err != nil {
			return err
		}
		return db.Create(tx, asset)
	})
}

func (s *Service) UpdateAsset(ctx context.Context, id uint, update *models.AssetUpdate) (*models.Asset, error) {
	var asset *models.Asset
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if asset, err = db.Get[models.Asset](tx, id); err != nil {
			return err
		}
		update.Apply(asset)
		if err = db.Require[models.AssetType](tx, asset.AssetTypeID, "asset_type_id"); err != nil {
			return err
		}
		return db.Update(tx, asset)
	})
	return asset, err
}

// DeleteAsset also removes the asset's properties and every hotspot pointing at it
func (s *Service) DeleteAsset(ctx context.Context, id uint) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if err := db.Require[models.Asset](tx, id, ""); err != nil {
			return err
		}
		if _, err := db.DeleteWhere[models.Hotspot](tx, db.Where("asset_id = ?", id)); err != nil {
			return err
		}
		if _, err := db.DeleteWhere[models.AssetProperty](tx, db.Where("asset_id = ?", id)); err != nil {
			return err
		}
		return db.Delete[models.Asset](tx, id)
	})
}

func (s *Service) ListAssetProperties(ctx context.Context, assetID uint, opts db.ListOptions) ([]models.AssetProperty, error) {
	tx := s.read(ctx)
	if err := db.Require[models.Asset](tx, assetID, "asset_id"); err != nil {
		return nil, err
	}
	return db.List[models.AssetProperty](tx, opts, db.Where("asset_id = ?", assetID))
}

func (s *Service) CreateAssetProperty(ctx context.Context, property *models.AssetProperty) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if err := db.Require[models.Asset](tx, property.AssetID, "asset_id"); err != nil {
			return err
		}
		return db.Create(tx, property)
	})
}

func (s *Service) UpdateAssetProperty(ctx context.Context, id uint, update *models.AssetPropertyUpdate) (*models.AssetProperty, error) {
	var property *models.AssetProperty
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if property, err = db.Get[models.AssetProperty](tx, id); err != nil {
			return err
		}
		update.Apply(property)
		return db.Update(tx, property)
	})
	return property, err
}

func (s *Service) DeleteAssetProperty(ctx context.Context, id uint) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		return db.Delete[models.AssetProperty](tx, id)
	})
}
