package services

import (
	"context"

	"gorm.io/gorm"

	"surveyserver/apperr"
	"surveyserver/db"
	"surveyserver/models"
)

func (s *Service) ListHotspots(ctx context.Context, imageryID uint, opts db.ListOptions) ([]models.Hotspot, error) {
	tx := s.read(ctx)
	if err := db.Require[models.Imagery](tx, imageryID, "source_imagery_id"); err != nil {
		return nil, err
	}
	return db.List[models.Hotspot](tx, opts, db.Where("source_imagery_id = ?", imageryID))
}

func (s *Service) CreateHotspot(ctx context.Context, hotspot *models.Hotspot) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if err := checkHotspot(tx, hotspot); err != nil {
			return err
		}
		return db.Create(tx, hotspot)
	})
}

func (s *Service) UpdateHotspot(ctx context.Context, id uint, update *models.HotspotUpdate) (*models.Hotspot, error) {
	var hotspot *models.Hotspot
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if hotspot, err = db.Get[models.Hotspot](tx, id); err != nil {
			return err
		}
		update.Apply(hotspot)
		if err = checkHotspot(tx, hotspot); err != nil {
			return err
		}
		return db.Update(tx, hotspot)
	})
	return hotspot, err
}

func (s *Service) DeleteHotspot(ctx context.Context, id uint) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		return db.Delete[models.Hotspot](tx, id)
	})
}

// checkHotspot validates the target, the placement and that everything linked lives in the source's survey
func checkHotspot(tx *gorm.DB, hotspot *models.Hotspot) error {
	if err := hotspot.CheckTarget(); err != nil {
		return err
	}
	source, err := reference[models.Imagery](tx, hotspot.SourceImageryID, "source_imagery_id")
	if err != nil {
		return err
	}
	if err = hotspot.CheckPlacement(source.Kind); err != nil {
		return err
	}

	if hotspot.AssetID != nil {
		asset, err := reference[models.Asset](tx, *hotspot.AssetID, "asset_id")
		if err != nil {
			return err
		}
		if asset.SurveyID != source.SurveyID {
			return apperr.InvalidHotspotReference(hotspot.ID, "asset_id", "asset belongs to another survey")
		}
		return nil
	}

	destinationID := *hotspot.DestinationImageryID
	if destinationID == source.ID {
		return apperr.InvalidHotspotReference(hotspot.ID, "destination_imagery_id", "destination is the source imagery")
	}
	destination, err := reference[models.Imagery](tx, destinationID, "destination_imagery_id")
	if err != nil {
		return err
	}
	if destination.Kind.IsPano() != source.Kind.IsPano() {
		return apperr.InvalidHotspotReference(hotspot.ID, "destination_imagery_id",
			"cannot link "+string(source.Kind)+" to "+string(destination.Kind))
	}
	if destination.SurveyID != source.SurveyID {
		return apperr.InvalidHotspotReference(hotspot.ID, "destination_imagery_id", "destination belongs to another survey")
	}
	return nil
}
