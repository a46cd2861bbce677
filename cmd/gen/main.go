package main

import (
	"doc-rag/config"
	"doc-rag/internal/database/model"
	"doc-rag/pkg/logger"

	"gorm.io/driver/mysql"
	"gorm.io/gen"
	"gorm.io/gorm"
)

func main() {
	if err := config.Init("config.yaml"); err != nil {
		logger.Fatal(err, "failed to load config")
	}
	dsn := config.Cfg.Dns

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Fatal(err, "failed to connect to database")
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:        "internal/database/query",
		Mode:           gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:  true,
		FieldCoverable: true,
	})

	g.UseDB(db)

	// Typed query helpers for the tables owned by the ingestion pipeline
	g.ApplyBasic(model.Document{}, model.Chunk{})

	g.Execute()
}
