package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"gorm.io/gorm"

	"surveyserver/db"
	"surveyserver/models"
)

// SeedFile is the YAML document read by SeedAssetTypes:
//
//	asset_types:
//	  - name: Fire extinguisher
//	    category: Safety
//	    property_names: [Serial number, Inspection date]
type SeedFile struct {
	AssetTypes []SeedAssetType `yaml:"asset_types"`
}

type SeedAssetType struct {
	Name          string   `yaml:"name"`
	Description   *string  `yaml:"description"`
	Category      *string  `yaml:"category"`
	PropertyNames []string `yaml:"property_names"`
}

type SeedResult struct {
	AssetTypes    int
	PropertyNames int
}

func ParseSeedFile(data []byte) (*SeedFile, error) {
	var seed SeedFile
	if err := yaml.UnmarshalWithOptions(data, &seed, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i, assetType := range seed.AssetTypes {
		if strings.TrimSpace(assetType.Name) == "" {
			return nil, fmt.Errorf("parse seed file: asset type %d has no name", i+1)
		}
	}
	return &seed, nil
}

// SeedAssetTypes creates the asset types and property names of data that do not exist yet.
// Existing rows, matched by name, are left as they are.
func (s *Service) SeedAssetTypes(ctx context.Context, data []byte) (SeedResult, error) {
	var result SeedResult
	seed, err := ParseSeedFile(data)
	if err != nil {
		return result, err
	}
	err = s.transaction(ctx, func(tx *gorm.DB) error {
		for _, item := range seed.AssetTypes {
			assetType, created, err := findOrCreateAssetType(tx, item)
			if err != nil {
				return err
			}
			if created {
				result.AssetTypes++
			}
			for _, name := range item.PropertyNames {
				existing, err := db.Count[models.AssetPropertyName](tx, db.Where("asset_type_id = ? AND name = ?", assetType.ID, name))
				if err != nil {
					return err
				}
				if existing > 0 {
					continue
				}
				if err = db.Create(tx, models.NewAssetPropertyName(assetType.ID, name)); err != nil {
					return err
				}
				result.PropertyNames++
			}
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}
	s.Log.Info("Asset types seeded", "asset_types", result.AssetTypes, "property_names", result.PropertyNames)
	return result, nil
}

func findOrCreateAssetType(tx *gorm.DB, item SeedAssetType) (*models.AssetType, bool, error) {
	var assetType models.AssetType
	err := tx.Where("name = ?", item.Name).Order("id").Take(&assetType).Error
	if err == nil {
		return &assetType, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	created := models.NewAssetType(item.Name)
	created.Description = item.Description
	created.Category = item.Category
	if err = db.Create(tx, created); err != nil {
		return nil, false, err
	}
	return created, true, nil
}
