package ingest

import (
	"context"
	"regexp"
	"testing"

	"doc-rag/internal/database/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockRepo(t *testing.T) (*GormRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return NewGormRepository(db), mock
}

func TestGormRepository_GetDocument(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows([]string{"id", "title", "type", "file_path", "is_processed"}).
		AddRow("doc-1", "Plano", "PDF", "uploads/doc-1.pdf", false)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `documents` WHERE id = ?")).
		WillReturnRows(rows)

	doc, err := repo.GetDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Plano", doc.Title)
	require.NotNil(t, doc.FilePath)
	assert.Equal(t, "uploads/doc-1.pdf", *doc.FilePath)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepository_GetDocumentNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT \\* FROM `documents`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetDocument(context.Background(), "nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGormRepository_MarkFailed(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `documents` SET `is_processed`=?,`processing_error`=?")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkFailed(context.Background(), "doc-1", "no content extracted"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepository_MarkProcessed(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `documents` SET `is_processed`=?,`processing_error`=?")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkProcessed(context.Background(), "doc-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepository_ChunkRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `document_chunks` WHERE document_id = ?")).
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `document_chunks`")).
		WillReturnResult(sqlmock.NewResult(42, 1))

	require.NoError(t, repo.DeleteChunks(context.Background(), "doc-1"))

	chunk := &model.Chunk{
		DocumentID:       "doc-1",
		ChunkIndex:       0,
		ContentChunk:     "hello",
		ContentHash:      contentHash("hello"),
		MilvusCollection: "chunks",
		MilvusID:         "doc-1:0",
	}
	require.NoError(t, repo.InsertChunk(context.Background(), chunk))
	assert.Equal(t, int64(42), chunk.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentHash(t *testing.T) {
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", contentHash("hello"))
}
