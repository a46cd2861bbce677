package ingest

import (
	"context"
	"testing"

	"doc-rag/config"

	milvusclient "github.com/milvus-io/milvus-sdk-go/v2/client"
	milvusentity "github.com/milvus-io/milvus-sdk-go/v2/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMilvus implements the calls under test; anything else panics on the nil embedded client.
type fakeMilvus struct {
	milvusclient.Client

	exists      bool
	upserted    []milvusentity.Column
	deleteExpr  string
	created     *milvusentity.Schema
	indexField  string
	index       milvusentity.Index
	loaded      []string
	upsertCalls int
}

func (f *fakeMilvus) Upsert(_ context.Context, _ string, _ string, columns ...milvusentity.Column) (milvusentity.Column, error) {
	f.upsertCalls++
	f.upserted = columns
	return columns[0], nil
}

func (f *fakeMilvus) Delete(_ context.Context, _ string, _ string, expr string) error {
	f.deleteExpr = expr
	return nil
}

func (f *fakeMilvus) HasCollection(_ context.Context, _ string) (bool, error) {
	return f.exists, nil
}

func (f *fakeMilvus) CreateCollection(_ context.Context, schema *milvusentity.Schema, _ int32, _ ...milvusclient.CreateCollectionOption) error {
	f.created = schema
	return nil
}

func (f *fakeMilvus) CreateIndex(_ context.Context, _ string, field string, idx milvusentity.Index, _ bool, _ ...milvusclient.IndexOption) error {
	f.indexField = field
	f.index = idx
	return nil
}

func (f *fakeMilvus) LoadCollection(_ context.Context, name string, _ bool, _ ...milvusclient.LoadCollectionOption) error {
	f.loaded = append(f.loaded, name)
	return nil
}

func TestMilvusSink_Upsert(t *testing.T) {
	cli := &fakeMilvus{}
	sink := NewMilvusSink(cli, "chunks", 3)

	id, err := sink.Upsert(context.Background(), ChunkVector{
		DocumentID: "doc-1",
		ChunkIndex: 4,
		Content:    "hello",
		Embedding:  []float32{1, 2, 3},
	})
	require.NoError(t, err)
	assert.Equal(t, "doc-1:4", id)
	require.Len(t, cli.upserted, 5)

	byName := map[string]milvusentity.Column{}
	for _, col := range cli.upserted {
		byName[col.Name()] = col
	}
	assert.Equal(t, []string{"doc-1:4"}, byName[FieldID].(*milvusentity.ColumnVarChar).Data())
	assert.Equal(t, []string{"doc-1"}, byName[FieldDocumentID].(*milvusentity.ColumnVarChar).Data())
	assert.Equal(t, []int32{4}, byName[FieldChunkIndex].(*milvusentity.ColumnInt32).Data())
	assert.Equal(t, []string{"hello"}, byName[FieldContent].(*milvusentity.ColumnVarChar).Data())
}

func TestMilvusSink_UpsertRejectsWrongDimension(t *testing.T) {
	cli := &fakeMilvus{}
	sink := NewMilvusSink(cli, "chunks", 3)

	_, err := sink.Upsert(context.Background(), ChunkVector{DocumentID: "d", Embedding: []float32{1}})
	require.Error(t, err)
	assert.Zero(t, cli.upsertCalls)
}

func TestMilvusSink_DeleteByDocument(t *testing.T) {
	cli := &fakeMilvus{}
	require.NoError(t, NewMilvusSink(cli, "chunks", 3).DeleteByDocument(context.Background(), "abc"))
	assert.Equal(t, `document_id == "abc"`, cli.deleteExpr)
}

func TestEnsureCollection_CreatesWhenMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Milvus.Collection = "chunks"
	cli := &fakeMilvus{}

	require.NoError(t, EnsureCollection(context.Background(), cli, cfg))

	require.NotNil(t, cli.created)
	assert.Equal(t, "chunks", cli.created.CollectionName)
	assert.Len(t, cli.created.Fields, 5)
	assert.Equal(t, FieldEmbedding, cli.indexField)
	assert.Equal(t, milvusentity.HNSW, cli.index.IndexType())
	assert.Equal(t, []string{"chunks"}, cli.loaded)
}

func TestEnsureCollection_ExistingOnlyLoads(t *testing.T) {
	cli := &fakeMilvus{exists: true}
	require.NoError(t, EnsureCollection(context.Background(), cli, config.Default()))
	assert.Nil(t, cli.created)
	assert.Empty(t, cli.indexField)
	assert.Len(t, cli.loaded, 1)
}
