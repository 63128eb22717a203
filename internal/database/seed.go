package database

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/college-feedback/feedback-service/internal/model"
)

var defaultCategories = []model.Category{
	{Name: "Academic", Description: "Courses, grading, teaching quality", Icon: "school", Active: true},
	{Name: "Infrastructure", Description: "Buildings, equipment, facilities", Icon: "building", Active: true},
	{Name: "Administrative", Description: "Admissions, records, administration", Icon: "admin_panel_settings", Active: true},
	{Name: "Other", Description: "Anything that fits nowhere else", Icon: "more_horiz", Active: true},
}

// SeedCategories inserts the default feedback categories, skipping any that
// already exist. Safe to run repeatedly.
func SeedCategories(db *gorm.DB) error {
	for _, c := range defaultCategories {
		if err := db.Create(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return err
		}
		log.Printf("seed: created category %q", c.Name)
	}
	return nil
}
