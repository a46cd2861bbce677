package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview(t *testing.T) {
	assert.Equal(t, "abc", Preview("abc", 5))
	assert.Equal(t, "ação...", Preview("açãoxyz", 4))
}

func TestErrorCarriesCallerAndField(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(&bytes.Buffer{}) })

	Error(errors.New("boom"), "ingest: document %s failed", "d1")
	out := buf.String()
	assert.Contains(t, out, "logger_test.go:")
	assert.Contains(t, out, "document d1 failed")
	assert.Contains(t, out, "boom")
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(&bytes.Buffer{}); _ = SetLevel("info") })

	require.NoError(t, SetLevel("warn"))
	Info("hidden")
	assert.Empty(t, buf.String())

	assert.Error(t, SetLevel("loud"))
}
