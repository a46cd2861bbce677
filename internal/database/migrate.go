package database

import (
	"doc-rag/internal/database/model"

	"gorm.io/gorm"
)

// Migrate creates or updates the tables the pipelines write to.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Document{}, &model.Chunk{})
}
