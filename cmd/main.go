// Command main prepares the backing stores: it migrates the MySQL tables and
// creates the Milvus collection with its HNSW index.
package main

import (
	"context"
	"doc-rag/config"
	coreingest "doc-rag/internal/core/ingest"
	"doc-rag/internal/database"
	"doc-rag/pkg/logger"
	"doc-rag/pkg/milvus"
	"flag"
	"time"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		logger.Fatal(err, "%v: failed to load config", config.ModuleSetting)
	}
	logger.Configure(config.Cfg)
	logger.Info("%v: database host %s", config.ModuleDatabase, config.Cfg.Database.Host)

	if err := database.Init(); err != nil {
		logger.Fatal(err, "%v: connect", config.ModuleDatabase)
	}
	if err := database.Migrate(database.DB); err != nil {
		logger.Fatal(err, "%v: migrate", config.ModuleDatabase)
	}
	logger.Info("%v: tables migrated", config.ModuleDatabase)

	// Milvus may take tens of seconds to boot
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()
	cli, err := milvus.ConnectWithRetry(ctx, config.Cfg.Milvus.Address, 20, 5*time.Second, 2*time.Second)
	if err != nil {
		logger.Fatal(err, "%v: connect", config.ModuleMilvus)
	}
	defer cli.Close()

	if err := coreingest.EnsureCollection(ctx, cli, config.Cfg); err != nil {
		logger.Fatal(err, "%v: ensure collection", config.ModuleMilvus)
	}
	logger.Info("%v: collection %s ready", config.ModuleMilvus, config.Cfg.Milvus.Collection)
}
