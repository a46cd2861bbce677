package ingest

import (
	"bytes"
	"context"
	"doc-rag/config"
	"doc-rag/internal/database/model"
	"doc-rag/pkg/apperror"
	"doc-rag/pkg/logger"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ledongthuc/pdf"
)

// ObjectGetter is the slice of the S3 API the extractor needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// StorageSource reads documents from S3 (or the local disk) and extracts their text.
type StorageSource struct {
	objects ObjectGetter
	bucket  string
}

// NewStorageSource uses bucket for file paths that carry no bucket of their own.
func NewStorageSource(objects ObjectGetter, bucket string) *StorageSource {
	return &StorageSource{objects: objects, bucket: bucket}
}

// Extract downloads ref.FilePath and returns its text. PDF pages are joined by a
// blank line; TXT files are read as UTF-8.
func (s *StorageSource) Extract(ctx context.Context, ref SourceRef) (string, error) {
	if strings.TrimSpace(ref.FilePath) == "" {
		return "", apperror.Extraction(errors.New("document has no file path"))
	}

	docType := strings.ToUpper(strings.TrimSpace(ref.Type))
	if docType != model.DocumentTypePDF && docType != model.DocumentTypeTXT {
		return "", apperror.Extraction(fmt.Errorf("unsupported document type: %s", ref.Type))
	}

	data, err := s.fetch(ctx, ref.FilePath)
	if err != nil {
		return "", apperror.Extraction(fmt.Errorf("download %s: %w", ref.FilePath, err))
	}

	var text string
	if docType == model.DocumentTypePDF {
		text, err = ExtractPDFText(data)
		if err != nil {
			return "", apperror.Extraction(err)
		}
	} else {
		text = sanitizeUTF8Printable(string(bytes.ToValidUTF8(data, nil)))
	}

	if strings.TrimSpace(text) == "" {
		return "", apperror.Extraction(errors.New("no content extracted from document"))
	}
	logger.WithFields(map[string]interface{}{
		"module":      config.ModuleIngest,
		"document_id": ref.DocumentID,
		"type":        docType,
		"characters":  len([]rune(text)),
	}).Info("ingest: text extracted")
	return text, nil
}

// fetch resolves s3://bucket/key, absolute or file:// local paths, and bare keys
// in the default bucket.
func (s *StorageSource) fetch(ctx context.Context, filePath string) ([]byte, error) {
	switch {
	case strings.HasPrefix(filePath, "file://"):
		return os.ReadFile(strings.TrimPrefix(filePath, "file://"))
	case filepath.IsAbs(filePath):
		return os.ReadFile(filePath)
	}

	bucket, key := s.bucket, strings.TrimPrefix(filePath, "/")
	if strings.HasPrefix(filePath, "s3://") {
		u, err := url.Parse(filePath)
		if err != nil {
			return nil, err
		}
		bucket = u.Host
		key = strings.TrimPrefix(u.Path, "/")
	}
	if s.objects == nil {
		return nil, errors.New("object storage not configured")
	}

	out, err := s.objects.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// ExtractPDFText returns the text of every non-empty page, pages separated by a blank line.
func ExtractPDFText(data []byte) (text string, err error) {
	// ledongthuc/pdf panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			logger.WithField("page", i).Warnf("ingest: skip unreadable page: %v", err)
			continue
		}
		if strings.TrimSpace(content) != "" {
			pages = append(pages, content)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

// sanitizeUTF8Printable drops BOMs, replacement runes and non-printable runes.
// Exotic whitespace becomes a plain space so words stay apart.
func sanitizeUTF8Printable(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\uFEFF' || r == unicode.ReplacementChar:
			continue
		case r == '\n' || r == '\t' || r == '\r':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case unicode.IsPrint(r):
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
