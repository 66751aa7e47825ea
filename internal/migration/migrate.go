package migration

import (
	"fmt"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/config"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table of the content platform in creation order
func Models() []interface{} {
	return []interface{}{
		&domain.Language{},
		&domain.User{},
		&domain.UserToken{},
		&domain.Waypoint{},
		&domain.WaypointDetail{},
		&domain.WaypointLocation{},
		&domain.Media{},
		&domain.MediaDetail{},
		&domain.MediaFile{},
		&domain.Tag{},
		&domain.TagDetail{},
		&domain.TagAttachment{},
		&domain.StaticContent{},
		&domain.StaticContentDetail{},
		&domain.Report{},
	}
}

// Run executes AutoMigrate for all tables and seeds the languages if none exist.
func Run(db *gorm.DB, languages []config.LanguageSeed) error {
	// 1. AutoMigrate - create missing tables and columns
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// 2. Seed - only into an empty languages table
	var count int64
	if err := db.Model(&domain.Language{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return seedLanguages(db, languages)
	}
	return nil
}

func seedLanguages(db *gorm.DB, seeds []config.LanguageSeed) error {
	if len(seeds) == 0 {
		return nil
	}
	languages := make([]domain.Language, len(seeds))
	for i, s := range seeds {
		priority := i + 1
		languages[i] = domain.Language{Code: s.Code, Name: s.Name, IsRTL: s.IsRTL, Priority: &priority}
	}
	if err := db.Create(&languages).Error; err != nil {
		return fmt.Errorf("seed languages: %w", err)
	}
	logger.GetLogger().Info().Int("count", len(languages)).Msg("languages seeded")
	return nil
}
