package ingest

import (
	"context"
	"doc-rag/config"
	"fmt"
	"strconv"

	milvusclient "github.com/milvus-io/milvus-sdk-go/v2/client"
	milvusentity "github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// Milvus field names shared with the retriever.
const (
	FieldID         = "id"
	FieldDocumentID = "document_id"
	FieldChunkIndex = "chunk_index"
	FieldContent    = "content"
	FieldEmbedding  = "embedding"

	maxContentBytes = 8192
)

// MilvusSink writes chunk vectors into one collection.
type MilvusSink struct {
	cli        milvusclient.Client
	collection string
	dim        int
}

func NewMilvusSink(cli milvusclient.Client, collection string, dim int) *MilvusSink {
	return &MilvusSink{cli: cli, collection: collection, dim: dim}
}

func (m *MilvusSink) Collection() string { return m.collection }

// VectorID is the primary key of a chunk, stable across reprocessing.
func VectorID(documentID string, chunkIndex int32) string {
	return documentID + ":" + strconv.Itoa(int(chunkIndex))
}

// Upsert writes one chunk row and returns its primary key.
func (m *MilvusSink) Upsert(ctx context.Context, v ChunkVector) (string, error) {
	if len(v.Embedding) != m.dim {
		return "", fmt.Errorf("vector has %d dimensions, collection expects %d", len(v.Embedding), m.dim)
	}
	id := VectorID(v.DocumentID, v.ChunkIndex)

	colID := milvusentity.NewColumnVarChar(FieldID, []string{id})
	colDoc := milvusentity.NewColumnVarChar(FieldDocumentID, []string{v.DocumentID})
	colChunk := milvusentity.NewColumnInt32(FieldChunkIndex, []int32{v.ChunkIndex})
	colContent := milvusentity.NewColumnVarChar(FieldContent, []string{v.Content})
	colVec := milvusentity.NewColumnFloatVector(FieldEmbedding, m.dim, [][]float32{v.Embedding})

	if _, err := m.cli.Upsert(ctx, m.collection, "", colID, colDoc, colChunk, colContent, colVec); err != nil {
		return "", err
	}
	return id, nil
}

// DeleteByDocument removes every vector of a document.
func (m *MilvusSink) DeleteByDocument(ctx context.Context, documentID string) error {
	expr := fmt.Sprintf("%s == %s", FieldDocumentID, strconv.Quote(documentID))
	return m.cli.Delete(ctx, m.collection, "", expr)
}

// EnsureCollection creates the collection and its HNSW index when missing, then loads it.
func EnsureCollection(ctx context.Context, cli milvusclient.Client, cfg config.Config) error {
	collection := cfg.Milvus.Collection
	exists, err := cli.HasCollection(ctx, collection)
	if err != nil {
		return err
	}
	if !exists {
		if err := createChunksCollection(ctx, cli, collection, cfg.Milvus.Dim); err != nil {
			return err
		}
		hnsw := cfg.Milvus.IndexHNSWConfig
		idx, err := milvusentity.NewIndexHNSW(milvusentity.MetricType(hnsw.MetricType), hnsw.M, hnsw.EfConstruction)
		if err != nil {
			return err
		}
		if err := cli.CreateIndex(ctx, collection, FieldEmbedding, idx, false); err != nil {
			return err
		}
	}
	return cli.LoadCollection(ctx, collection, false)
}

func createChunksCollection(ctx context.Context, cli milvusclient.Client, collection string, dim int) error {
	schema := milvusentity.NewSchema().WithName(collection).WithDescription("document chunk embeddings")
	schema.WithField(milvusentity.NewField().WithName(FieldID).WithDataType(milvusentity.FieldTypeVarChar).WithMaxLength(64).WithIsPrimaryKey(true))
	schema.WithField(milvusentity.NewField().WithName(FieldDocumentID).WithDataType(milvusentity.FieldTypeVarChar).WithMaxLength(36))
	schema.WithField(milvusentity.NewField().WithName(FieldChunkIndex).WithDataType(milvusentity.FieldTypeInt32))
	schema.WithField(milvusentity.NewField().WithName(FieldContent).WithDataType(milvusentity.FieldTypeVarChar).WithMaxLength(maxContentBytes))
	schema.WithField(milvusentity.NewField().WithName(FieldEmbedding).WithDataType(milvusentity.FieldTypeFloatVector).WithDim(int64(dim)))

	return cli.CreateCollection(ctx, schema, 2)
}
