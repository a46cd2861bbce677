package main

import (
	"context"
	"doc-rag/config"
	"doc-rag/internal/api/documents"
	"doc-rag/internal/api/healthcheck"
	"doc-rag/internal/api/rag"
	retrieverapi "doc-rag/internal/api/retriever"
	"doc-rag/internal/api/upload"
	"doc-rag/internal/core/chunking"
	coreingest "doc-rag/internal/core/ingest"
	"doc-rag/internal/core/query"
	"doc-rag/internal/core/retriever"
	"doc-rag/internal/database"
	"doc-rag/internal/middleware"
	"doc-rag/internal/services/ingest"
	"doc-rag/pkg/logger"
	"doc-rag/pkg/milvus"
	s3client "doc-rag/pkg/s3"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set APP_ variables directly
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	if err := config.Init(configPath); err != nil {
		logger.Fatal(err, "%v: failed to load config", config.ModuleSetting)
	}
	cfg := config.Cfg
	logger.Configure(cfg)

	if err := database.Init(); err != nil {
		logger.Fatal(err, "%v: database unavailable", config.ModuleDatabase)
	}
	db, err := database.GetDB()
	if err != nil {
		logger.Fatal(err, "%v: database unavailable", config.ModuleDatabase)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s3cli, err := s3client.NewClient(ctx, cfg)
	if err != nil {
		logger.Fatal(err, "%v: s3 client", config.ModuleS3)
	}
	milvusCli, err := milvus.ConnectWithRetry(ctx, cfg.Milvus.Address, 20, 5*time.Second, 2*time.Second)
	if err != nil {
		logger.Fatal(err, "%v: milvus connect", config.ModuleMilvus)
	}
	defer milvusCli.Close()
	if err := coreingest.EnsureCollection(ctx, milvusCli, cfg); err != nil {
		logger.Fatal(err, "%v: ensure collection %s", config.ModuleMilvus, cfg.Milvus.Collection)
	}

	embedder := coreingest.NewOpenAIEmbedder(cfg)
	pipeline := ingest.NewService(
		ingest.NewGormRepository(db),
		coreingest.NewStorageSource(s3cli, cfg.S3.Bucket),
		embedder,
		coreingest.NewMilvusSink(milvusCli, cfg.Milvus.Collection, cfg.Milvus.Dim),
		ingest.WithChunker(chunking.New(cfg.Chunking.MaxChunkSize)),
		ingest.WithTokenCounter(func(s string) *int32 {
			return coreingest.CountTokens(cfg.OpenAI.EmbeddingModel, s)
		}),
	)
	answerer := query.NewService(query.NewOpenAIChat(cfg), query.SamplingFromConfig(cfg))
	searcher := retriever.NewSearcher(milvusCli, embedder, cfg)

	app := fiber.New(fiber.Config{
		AppName:     cfg.Server.AppName,
		BodyLimit:   cfg.Server.BodyLimit,
		Concurrency: cfg.Server.Concurrency,
	})
	middleware.Register(app, cfg)

	healthcheck.RegisterRoutes(app, healthcheck.NewHandler(database.GetDB, milvusCli, cfg.Milvus.Collection))
	upload.RegisterRoutes(app, upload.NewHandler(s3cli, upload.NewGormDocumentStore(db), cfg.S3.Bucket, ""))
	documents.RegisterRoutes(app, documents.NewHandler(pipeline))
	rag.RegisterRoutes(app, rag.NewHandler(answerer))
	retrieverapi.RegisterRoutes(app, retrieverapi.NewHandler(searcher))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("%v: listening on %s", config.ModuleServer, addr)
	if err := app.Listen(addr); err != nil {
		logger.Error(err, "server error")
	}
}
