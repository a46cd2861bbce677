package ingest

import (
	"context"
	"crypto/sha256"
	"doc-rag/internal/database"
	"doc-rag/internal/database/model"
	"encoding/hex"

	"gorm.io/gorm"
)

// Repository is the document and chunk persistence the pipeline needs.
type Repository interface {
	GetDocument(ctx context.Context, id string) (*model.Document, error)
	SaveContent(ctx context.Context, id string, content string) error
	DeleteChunks(ctx context.Context, id string) error
	InsertChunk(ctx context.Context, chunk *model.Chunk) error
	MarkProcessed(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, message string) error
}

// GormRepository stores documents and chunk rows in MySQL.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	return database.GetEntityByID[model.Document](ctx, r.db, id)
}

func (r *GormRepository) SaveContent(ctx context.Context, id string, content string) error {
	return database.UpdateEntityByID[model.Document](ctx, r.db, id, map[string]interface{}{
		"content": content,
	})
}

func (r *GormRepository) DeleteChunks(ctx context.Context, id string) error {
	return database.DeleteWhere[model.Chunk](ctx, r.db, "document_id = ?", id)
}

func (r *GormRepository) InsertChunk(ctx context.Context, chunk *model.Chunk) error {
	return database.CreateEntity(ctx, r.db, chunk)
}

// MarkProcessed sets the success flag and clears any previous error.
func (r *GormRepository) MarkProcessed(ctx context.Context, id string) error {
	return database.UpdateEntityByID[model.Document](ctx, r.db, id, map[string]interface{}{
		"is_processed":     true,
		"processing_error": nil,
	})
}

// MarkFailed records message and clears the success flag.
func (r *GormRepository) MarkFailed(ctx context.Context, id string, message string) error {
	return database.UpdateEntityByID[model.Document](ctx, r.db, id, map[string]interface{}{
		"is_processed":     false,
		"processing_error": message,
	})
}

func contentHash(content string) string {
	h := sha256.Sum256([]byte(content))
	return hex.EncodeToString(h[:])
}
