package healthcheck

import (
	"context"
	"doc-rag/config"
	"doc-rag/pkg/apperror"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	milvusclient "github.com/milvus-io/milvus-sdk-go/v2/client"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

// Handler reports the health of the API and its backing stores.
type Handler struct {
	db         func() (*gorm.DB, error)
	milvus     milvusclient.Client
	collection string
}

func NewHandler(db func() (*gorm.DB, error), milvus milvusclient.Client, collection string) *Handler {
	return &Handler{db: db, milvus: milvus, collection: collection}
}

func ApiHealthCheck(c fiber.Ctx) error {
	return c.SendString("ok")
}

func (h *Handler) DatabaseHealthCheck(c fiber.Ctx) error {
	if h.db == nil {
		return apperror.InternalError(config.ModuleDatabase, c, errors.New("database not configured"))
	}
	db, err := h.db()
	if err != nil {
		return apperror.InternalError(config.ModuleDatabase, c, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return apperror.InternalError(config.ModuleDatabase, c, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperror.InternalError(config.ModuleDatabase, c, err)
	}
	return c.SendString("ok")
}

// MilvusHealthCheck also fails when the chunk collection is missing.
func (h *Handler) MilvusHealthCheck(c fiber.Ctx) error {
	if h.milvus == nil {
		return apperror.InternalError(config.ModuleMilvus, c, errors.New("milvus not configured"))
	}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	exists, err := h.milvus.HasCollection(ctx, h.collection)
	if err != nil {
		return apperror.InternalError(config.ModuleMilvus, c, err)
	}
	if !exists {
		return apperror.InternalError(config.ModuleMilvus, c, errors.New("collection "+h.collection+" not found"))
	}
	return c.SendString("ok")
}
