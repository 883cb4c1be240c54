package bootstrap

import (
	"anoa.com/recipeshare/internal/entity"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate creates or updates the six tables together with their foreign keys.
// Deleting a user or category cascades to recipes and tricks, and deleting a
// recipe cascades to its ingredients and steps.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Recipe{},
		&entity.Ingredient{},
		&entity.Step{},
		&entity.Trick{},
	)
}

var defaultCategories = []string{
	"Breakfast",
	"Main Dishes",
	"Desserts",
	"Drinks",
}

// SeedCategories inserts the default categories that are missing.
func SeedCategories(db *gorm.DB) error {
	for _, name := range defaultCategories {
		var count int64
		if err := db.Model(&entity.Category{}).
			Where("name = ?", name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&entity.Category{Name: name}).Error; err != nil {
				return err
			}
			logrus.WithField("category", name).Info("seeded category")
		}
	}

	return nil
}
