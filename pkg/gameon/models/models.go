package models

import "gorm.io/gorm"

// AllModels returns all models for migration
// Note: User must be migrated first as every other row references an owner
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Platform{},
		&Tag{},
		&Game{},
		&TagGameRelation{},
		&GameDateRelation{},
	}
}

// AutoMigrate runs GORM auto-migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
