package model

import "time"

const TableNameDocument = "documents"

// Document types accepted by the ingestion pipeline.
const (
	DocumentTypePDF = "PDF"
	DocumentTypeTXT = "TXT"
)

// Document is an uploaded source file and its processing state.
// IsProcessed and ProcessingError are mutually exclusive.
type Document struct {
	ID               string     `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Title            string     `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Type             string     `gorm:"column:type;type:varchar(16);not null" json:"type"`
	FilePath         *string    `gorm:"column:file_path;type:varchar(1024)" json:"file_path"`
	OriginalFilename *string    `gorm:"column:original_filename;type:varchar(255)" json:"original_filename"`
	Sha256           *string    `gorm:"column:sha256;type:char(64);index:idx_documents_sha256" json:"sha256"`
	Content          *string    `gorm:"column:content;type:longtext" json:"content,omitempty"`
	IsProcessed      bool       `gorm:"column:is_processed;not null;default:false" json:"is_processed"`
	ProcessingError  *string    `gorm:"column:processing_error;type:text" json:"processing_error"`
	UploadedAt       *time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

// TableName Document's table name
func (*Document) TableName() string {
	return TableNameDocument
}
