package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Chunking.MaxChunkSize)
	assert.Equal(t, "documents", cfg.S3.Bucket)
	assert.Equal(t, "text-embedding-3-small", cfg.OpenAI.EmbeddingModel)
	assert.InDelta(t, 0.3, cfg.OpenAI.Temperature, 1e-9)
	assert.Contains(t, cfg.Dns, "tcp(127.0.0.1:3306)/docrag")
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
chunking:
  max_chunk_size: 500
milvus:
  collection: chunks_test
`)
	t.Setenv("APP_SERVER__PORT", "9100")
	t.Setenv("APP_OPENAI__MODEL", "gpt-4o-mini")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 500, cfg.Chunking.MaxChunkSize)
	assert.Equal(t, "chunks_test", cfg.Milvus.Collection)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	// untouched nested defaults survive a partial file
	assert.Equal(t, 1536, cfg.Milvus.Dim)
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
chunking:
  max_chunk_size: -4
log_level: verbose
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MaxChunkSize")
	assert.Contains(t, err.Error(), "LogLevel")
}

func TestDefault_ReturnsCopy(t *testing.T) {
	a := Default()
	a.Cors.AllowOrigins[0] = "https://example.com"
	b := Default()
	assert.Equal(t, "*", b.Cors.AllowOrigins[0])
}
