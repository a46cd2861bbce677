package healthcheck

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v3"
	milvusclient "github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type fakeMilvus struct {
	milvusclient.Client
	exists bool
	err    error
}

func (f *fakeMilvus) HasCollection(_ context.Context, _ string) (bool, error) {
	return f.exists, f.err
}

func status(t *testing.T, h *Handler, path string) (int, string) {
	t.Helper()
	app := fiber.New()
	RegisterRoutes(app, h)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestApiHealthCheck(t *testing.T) {
	code, body := status(t, NewHandler(nil, nil, ""), "/health/api")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)
}

func TestMilvusHealthCheck(t *testing.T) {
	tests := []struct {
		name string
		cli  milvusclient.Client
		want int
	}{
		{"ok", &fakeMilvus{exists: true}, http.StatusOK},
		{"missing collection", &fakeMilvus{}, http.StatusInternalServerError},
		{"unreachable", &fakeMilvus{err: errors.New("connection refused")}, http.StatusInternalServerError},
		{"not configured", nil, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := status(t, NewHandler(nil, tt.cli, "document_embeddings"), "/health/milvus")
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestDatabaseHealthCheck(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectPing()
	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)
	h := NewHandler(func() (*gorm.DB, error) { return db, nil }, nil, "")

	code, _ := status(t, h, "/health/database")
	assert.Equal(t, http.StatusOK, code)
	assert.NoError(t, mock.ExpectationsWereMet())

	code, _ = status(t, NewHandler(func() (*gorm.DB, error) { return nil, errors.New("down") }, nil, ""), "/health/database")
	assert.Equal(t, http.StatusInternalServerError, code)
}
