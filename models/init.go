package models

import (
	"fmt"

	"gorm.io/gorm"
)

const latestSurveyIndex = "idx_surveys_site_latest"

// All lists every table in dependency order
func All() []interface{} {
	return []interface{}{
		&Site{},
		&Survey{},
		&AssetType{},
		&AssetPropertyName{},
		&Overlay{},
		&Asset{},
		&AssetProperty{},
		&Imagery{},
		&Hotspot{},
		&FileDeletion{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return createLatestSurveyIndex(db)
}

// createLatestSurveyIndex allows any number of non-latest surveys per site but only one latest
func createLatestSurveyIndex(db *gorm.DB) error {
	if db.Migrator().HasIndex(&Survey{}, latestSurveyIndex) {
		return nil
	}
	var statement string
	switch db.Dialector.Name() {
	case "mysql":
		// MySQL has no partial indexes. NULLs never collide, so only latest rows are constrained.
		statement = "CREATE UNIQUE INDEX " + latestSurveyIndex + " ON surveys ((CASE WHEN is_latest THEN site_id END))"
	default:
		statement = "CREATE UNIQUE INDEX " + latestSurveyIndex + " ON surveys (site_id) WHERE is_latest"
	}
	if err := db.Exec(statement).Error; err != nil {
		return fmt.Errorf("create %s: %w", latestSurveyIndex, err)
	}
	return nil
}
