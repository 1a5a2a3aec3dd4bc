package services

import (
	"context"

	"gorm.io/gorm"

	"surveyserver/apperr"
	"surveyserver/db"
	"surveyserver/models"
)

func (s *Service) CreateAssetType(ctx context.Context, assetType *models.AssetType) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		return db.Create(tx, assetType)
	})
}

func (s *Service) UpdateAssetType(ctx context.Context, id uint, update *models.AssetTypeUpdate) (*models.AssetType, error) {
	var assetType *models.AssetType
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if assetType, err = db.Get[models.AssetType](tx, id); err != nil {
			return err
		}
		update.Apply(assetType)
		return db.Update(tx, assetType)
	})
	return assetType, err
}

// DeleteAssetType refuses while assets use the type. Its property names and icon go with it.
func (s *Service) DeleteAssetType(ctx context.Context, id uint) error {
	queued := 0
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		assetType, err := db.Get[models.AssetType](tx, id)
		if err != nil {
			return err
		}
		assets, err := db.Count[models.Asset](tx, db.Where("asset_type_id = ?", id))
		if err != nil {
			return err
		}
		if assets > 0 {
			return apperr.HasDependents("asset type", id, "assets")
		}
		if _, err = db.DeleteWhere[models.AssetPropertyName](tx, db.Where("asset_type_id = ?", id)); err != nil {
			return err
		}
		if queued, err = queueFiles(tx, assetType.IconPath()); err != nil {
			return err
		}
		return db.Delete[models.AssetType](tx, id)
	})
	if err != nil {
		return err
	}
	s.filesQueued(queued)
	return nil
}

// SetAssetTypeIcon points the type at a newly stored icon and queues the one it replaces
func (s *Service) SetAssetTypeIcon(ctx context.Context, id uint, originalName, storedName string) (*models.AssetType, error) {
	var assetType *models.AssetType
	queued := 0
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if assetType, err = db.Get[models.AssetType](tx, id); err != nil {
			return err
		}
		if queued, err = queueFiles(tx, assetType.IconPath()); err != nil {
			return err
		}
		assetType.OriginalIconFilename = &originalName
		assetType.StoredIconFilename = &storedName
		return db.Update(tx, assetType)
	})
	if err != nil {
		return nil, err
	}
	s.filesQueued(queued)
	return assetType, nil
}

func (s *Service) ListPropertyNames(ctx context.Context, assetTypeID uint, opts db.ListOptions) ([]models.AssetPropertyName, error) {
	tx := s.read(ctx)
	if err := db.Require[models.AssetType](tx, assetTypeID, "asset_type_id"); err != nil {
		return nil, err
	}
	return db.List[models.AssetPropertyName](tx, opts, db.Where("asset_type_id = ?", assetTypeID))
}

func (s *Service) CreatePropertyName(ctx context.Context, name *models.AssetPropertyName) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if err := db.Require[models.AssetType](tx, name.AssetTypeID, "asset_type_id"); err != nil {
			return err
		}
		return db.Create(tx, name)
	})
}

func (s *Service) UpdatePropertyName(ctx context.Context, id uint, update *models.AssetPropertyNameUpdate) (*models.AssetPropertyName, error) {
	var name *models.AssetPropertyName
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if name, err = db.Get[models.AssetPropertyName](tx, id); err != nil {
			return err
		}
		update.Apply(name)
		return db.Update(tx, name)
	})
	return name, err
}

func (s *Service) DeletePropertyName(ctx context.Context, id uint) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		return db.Delete[models.AssetPropertyName](tx, id)
	})
}
