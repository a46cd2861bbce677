package model

import "time"

const TableNameChunk = "document_chunks"

// Chunk is one embedded slice of a document. The vector itself lives in Milvus
// under MilvusCollection/MilvusID.
type Chunk struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	DocumentID       string    `gorm:"column:document_id;type:varchar(36);not null;index:idx_document_chunk,unique,priority:1" json:"document_id"`
	ChunkIndex       int32     `gorm:"column:chunk_index;not null;index:idx_document_chunk,unique,priority:2" json:"chunk_index"`
	ContentChunk     string    `gorm:"column:content_chunk;type:text;not null" json:"content_chunk"`
	ContentHash      string    `gorm:"column:content_hash;type:char(64);not null" json:"content_hash"`
	TokenCount       *int32    `gorm:"column:token_count" json:"token_count"`
	MilvusCollection string    `gorm:"column:milvus_collection;type:varchar(255);not null" json:"milvus_collection"`
	MilvusID         string    `gorm:"column:milvus_id;type:varchar(64);not null" json:"milvus_id"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName Chunk's table name
func (*Chunk) TableName() string {
	return TableNameChunk
}
