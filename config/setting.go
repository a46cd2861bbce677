package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type serverConfig struct {
	Port        int    `koanf:"port" validate:"required"`
	Mode        string `koanf:"mode" validate:"required"`
	Concurrency int    `koanf:"concurrency" validate:"required"`
	BodyLimit   int    `koanf:"body_limit" validate:"required"`
	AppName     string `koanf:"app_name" validate:"required"`
}

type logLevel string

const (
	Debug logLevel = "debug"
	Info  logLevel = "info"
	Warn  logLevel = "warn"
	Error logLevel = "error"
	Fatal logLevel = "fatal"
	Panic logLevel = "panic"
)

type Module string

const (
	ModuleMilvus    Module = "milvus"
	ModuleIngest    Module = "ingest"
	ModuleChunking  Module = "chunking"
	ModuleDatabase  Module = "database"
	ModuleOpenAI    Module = "openai"
	ModuleS3        Module = "s3"
	ModuleCors      Module = "cors"
	ModuleServer    Module = "server"
	ModuleSetting   Module = "setting"
	ModuleUpload    Module = "upload"
	ModuleDocuments Module = "documents"
	ModuleRetriever Module = "retriever"
	ModuleQuery     Module = "query"
)

type databaseConfig struct {
	Host         string   `koanf:"host" validate:"required"`
	Port         int      `koanf:"port" validate:"required"`
	User         string   `koanf:"user" validate:"required"`
	Password     string   `koanf:"password"`
	Name         string   `koanf:"name" validate:"required"`
	MaxIdleConns int      `koanf:"max_idle_conns" validate:"required"`
	MaxOpenConns int      `koanf:"max_open_conns" validate:"required"`
	MaxLifetime  int      `koanf:"max_lifetime" validate:"required"`
	Replicas     []string `koanf:"replicas"`
}

type openaiConfig struct {
	Key            string  `koanf:"key"`
	BaseURL        string  `koanf:"base_url"`
	Model          string  `koanf:"model" validate:"required"`
	EmbeddingModel string  `koanf:"embedding_model" validate:"required"`
	Temperature    float64 `koanf:"temperature" validate:"gte=0,lte=2"`
	MaxTokens      int     `koanf:"max_tokens" validate:"required,gt=0"`
}

type corsConfig struct {
	AllowOrigins []string `koanf:"allow_origins" validate:"required"`
	AllowMethods []string `koanf:"allow_methods" validate:"required"`
	AllowHeaders []string `koanf:"allow_headers" validate:"required"`
}

type milvusConfig struct {
	Address         string          `koanf:"address" validate:"required"`
	Collection      string          `koanf:"collection" validate:"required"`
	Dim             int             `koanf:"dim" validate:"required,gt=0"`
	IndexHNSWConfig indexHNSWConfig `koanf:"index_hnsw_config"`
}

type indexHNSWConfig struct {
	MetricType     string `koanf:"metric_type" validate:"required"`
	M              int    `koanf:"m" validate:"required"`
	EfConstruction int    `koanf:"ef_construction" validate:"required"`
	Ef             int    `koanf:"ef" validate:"required"`
}

type s3Config struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Region    string `koanf:"region" validate:"required"`
	UseSSL    bool   `koanf:"use_ssl"`
	Bucket    string `koanf:"bucket" validate:"required"`
}

type chunkingConfig struct {
	MaxChunkSize int `koanf:"max_chunk_size" validate:"required,gte=1"`
}

// Config is the root application configuration.
type Config struct {
	Server   serverConfig   `koanf:"server"`
	Database databaseConfig `koanf:"database"`
	OpenAI   openaiConfig   `koanf:"openai"`
	LogLevel logLevel       `koanf:"log_level" validate:"oneof=debug info warn error fatal panic"`
	Dns      string         `koanf:"dns"`
	S3       s3Config       `koanf:"s3"`
	Cors     corsConfig     `koanf:"cors"`
	Milvus   milvusConfig   `koanf:"milvus"`
	Chunking chunkingConfig `koanf:"chunking"`
}

func buildMySQLDSN(cfg databaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)
}

var defaultConfig = Config{
	Server: serverConfig{
		Port:        8000,
		Mode:        "release",
		Concurrency: 256,
		BodyLimit:   32 * 1024 * 1024,
		AppName:     "doc-rag",
	},
	Database: databaseConfig{
		Host:         "127.0.0.1",
		Port:         3306,
		User:         "root",
		Password:     "",
		Name:         "docrag",
		MaxIdleConns: 10,
		MaxOpenConns: 50,
		MaxLifetime:  30,
	},
	OpenAI: openaiConfig{
		Key:            "",
		Model:          "gpt-4",
		EmbeddingModel: "text-embedding-3-small",
		Temperature:    0.3,
		MaxTokens:      1000,
	},
	LogLevel: Info,
	S3: s3Config{
		Endpoint:  "http://localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Region:    "us-east-1",
		UseSSL:    false,
		Bucket:    "documents",
	},
	Cors: corsConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
	},
	Milvus: milvusConfig{
		Address:    "localhost:19530",
		Collection: "document_embeddings",
		Dim:        1536,
		IndexHNSWConfig: indexHNSWConfig{
			MetricType:     "COSINE",
			M:              16,
			EfConstruction: 200,
			Ef:             64,
		},
	},
	Chunking: chunkingConfig{
		MaxChunkSize: 1000,
	},
}

var (
	Cfg  = Default()
	once sync.Once
)

// Default returns a copy of the compiled-in defaults.
func Default() Config {
	cfg := defaultConfig
	cfg.Cors.AllowOrigins = append([]string(nil), defaultConfig.Cors.AllowOrigins...)
	cfg.Cors.AllowMethods = append([]string(nil), defaultConfig.Cors.AllowMethods...)
	cfg.Cors.AllowHeaders = append([]string(nil), defaultConfig.Cors.AllowHeaders...)
	return cfg
}

// Load reads path (if present) and APP_ environment variables over the defaults.
// Nested keys are separated by a double underscore: APP_SERVER__PORT=9000.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("%v: load %s: %w", ModuleSetting, path, err)
		}
	}

	if err := k.Load(env.Provider("APP_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "APP_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return cfg, fmt.Errorf("%v: load env: %w", ModuleSetting, err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("%v: unmarshal: %w", ModuleSetting, err)
	}

	if cfg.Dns == "" {
		cfg.Dns = buildMySQLDSN(cfg.Database)
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports every failing field in one error.
func Validate(cfg Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("%v: config validation failed: %w", ModuleSetting, err)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%v: config validation failed:\n", ModuleSetting))
	for _, e := range errs {
		sb.WriteString(fmt.Sprintf("  - %s: failed '%s' (value: %v)\n", e.Namespace(), e.Tag(), e.Value()))
	}
	return errors.New(strings.TrimRight(sb.String(), "\n"))
}

// Init loads path into Cfg. Only the first call has an effect.
func Init(path string) error {
	var err error
	once.Do(func() {
		var cfg Config
		cfg, err = Load(path)
		if err != nil {
			return
		}
		Cfg = cfg
	})
	return err
}
