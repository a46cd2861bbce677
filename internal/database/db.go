package database

import (
	"doc-rag/config"
	"doc-rag/pkg/logger"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

var (
	DB *gorm.DB
	mu sync.Mutex
)

// connect opens the DB and applies pool configuration
func connect(cfg config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.Dns), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if len(cfg.Database.Replicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.Database.Replicas))
		for _, dsn := range cfg.Database.Replicas {
			replicas = append(replicas, mysql.Open(dsn))
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("register replicas: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	lifetime := time.Duration(cfg.Database.MaxLifetime) * time.Minute
	sqlDB.SetConnMaxIdleTime(lifetime)
	sqlDB.SetConnMaxLifetime(lifetime)

	return db, nil
}

// Init opens the shared connection from config.Cfg.
func Init() error {
	mu.Lock()
	defer mu.Unlock()
	db, err := connect(config.Cfg)
	if err != nil {
		logger.Error(err, "%v: failed to connect to database", config.ModuleDatabase)
		return err
	}
	DB = db
	return nil
}

// ensureConnection verifies DB connectivity and reconnects if needed
func ensureConnection() error {
	mu.Lock()
	defer mu.Unlock()

	if DB != nil {
		sqlDB, err := DB.DB()
		if err == nil && sqlDB.Ping() == nil {
			return nil
		}
	}
	newDB, err := connect(config.Cfg)
	if err != nil {
		logger.Error(err, "%v: failed to reconnect", config.ModuleDatabase)
		return err
	}
	DB = newDB
	return nil
}

// GetDB returns a healthy *gorm.DB, attempting reconnect if necessary
func GetDB() (*gorm.DB, error) {
	if err := ensureConnection(); err != nil {
		return nil, err
	}
	if DB == nil {
		return nil, errors.New("database not initialized")
	}
	return DB, nil
}
