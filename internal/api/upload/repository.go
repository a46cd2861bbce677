package upload

import (
	"context"
	"doc-rag/internal/database"
	"doc-rag/internal/database/model"
	"errors"

	"gorm.io/gorm"
)

// DocumentStore persists uploaded document records.
type DocumentStore interface {
	// FindBySha256 returns nil, nil when no document has that content hash.
	FindBySha256(ctx context.Context, sha string) (*model.Document, error)
	Create(ctx context.Context, doc *model.Document) error
}

type GormDocumentStore struct {
	db *gorm.DB
}

func NewGormDocumentStore(db *gorm.DB) *GormDocumentStore {
	return &GormDocumentStore{db: db}
}

func (s *GormDocumentStore) FindBySha256(ctx context.Context, sha string) (*model.Document, error) {
	var doc model.Document
	err := s.db.WithContext(ctx).Where("sha256 = ?", sha).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *GormDocumentStore) Create(ctx context.Context, doc *model.Document) error {
	return database.CreateEntity(ctx, s.db, doc)
}
