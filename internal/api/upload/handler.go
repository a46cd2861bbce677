package upload

import (
	"context"
	"crypto/sha256"
	"doc-rag/config"
	"doc-rag/internal/database/model"
	"doc-rag/pkg/apperror"
	"doc-rag/pkg/apperror/status"
	"doc-rag/pkg/logger"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const storeTimeout = time.Minute

// ObjectStore is the slice of the S3 API used for uploads.
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

type uploadResponse struct {
	DocumentID string `json:"documentId"`
	Type       string `json:"type"`
	FilePath   string `json:"filePath"`
	Duplicate  bool   `json:"duplicate,omitempty"`
}

// Handler stores uploaded files in S3, or under localDir when objects is nil.
type Handler struct {
	objects  ObjectStore
	docs     DocumentStore
	bucket   string
	localDir string
}

func NewHandler(objects ObjectStore, docs DocumentStore, bucket, localDir string) *Handler {
	if localDir == "" {
		localDir = filepath.Join("storage", "documents")
	}
	return &Handler{objects: objects, docs: docs, bucket: bucket, localDir: localDir}
}

var contentTypes = map[string]string{
	model.DocumentTypePDF: "application/pdf",
	model.DocumentTypeTXT: "text/plain; charset=utf-8",
}

// documentType maps a file name to PDF or TXT; anything else is unsupported.
func documentType(filename string) (string, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return model.DocumentTypePDF, true
	case ".txt":
		return model.DocumentTypeTXT, true
	}
	return "", false
}

func (h *Handler) HandleUpload(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return apperror.BadRequest(config.ModuleUpload, c, status.RequestMissingParams, "file is required")
	}
	if fh.Size == 0 {
		return apperror.BadRequest(config.ModuleUpload, c, status.RequestMissingParams, "empty file")
	}
	docType, ok := documentType(fh.Filename)
	if !ok {
		return apperror.BadRequest(config.ModuleUpload, c, status.UploadUnsupportedType, "only .pdf and .txt files are supported")
	}

	file, err := fh.Open()
	if err != nil {
		return apperror.BadRequest(config.ModuleUpload, c, status.RequestInvalidBody, "cannot open file")
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	// Buffer once to a temp file while hashing; the key is derived from the hash.
	tmp, err := os.CreateTemp("", "upload-*.tmp")
	if err != nil {
		return apperror.InternalError(config.ModuleUpload, c, status.New(status.UploadStore, err))
	}
	defer func() {
		tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, hasher), file); err != nil {
		return apperror.InternalError(config.ModuleUpload, c, status.New(status.UploadStore, fmt.Errorf("stream copy: %w", err)))
	}
	shaHex := hexSum(hasher)

	existing, err := h.docs.FindBySha256(ctx, shaHex)
	if err != nil {
		return apperror.InternalError(config.ModuleUpload, c, status.New(status.UploadStore, err))
	}
	if existing != nil {
		logger.WithField("doc_id", existing.ID).Info("upload: duplicate content, reusing document")
		return apperror.Success(config.ModuleUpload, c, apperror.FiberSuccessMessage{
			Code:       status.OK,
			Message:    "File already uploaded",
			TrackingID: trackingID,
			Data:       uploadResponse{DocumentID: existing.ID, Type: existing.Type, FilePath: deref(existing.FilePath), Duplicate: true},
		})
	}

	name := shaHex + strings.ToLower(filepath.Ext(fh.Filename))
	var storedPath string
	if h.objects != nil {
		storedPath, err = h.storeToS3(ctx, tmp, name, docType)
	} else {
		storedPath, err = h.storeToLocal(tmp, name)
	}
	if err != nil {
		return apperror.InternalError(config.ModuleUpload, c, status.New(status.UploadStore, err))
	}

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		title = strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename))
	}
	original := fh.Filename
	now := time.Now()
	doc := model.Document{
		ID:               uuid.NewString(),
		Title:            title,
		Type:             docType,
		FilePath:         &storedPath,
		OriginalFilename: &original,
		Sha256:           &shaHex,
		UploadedAt:       &now,
	}
	if err := h.docs.Create(ctx, &doc); err != nil {
		return apperror.InternalError(config.ModuleUpload, c, status.New(status.UploadStore, err))
	}

	return apperror.Success(config.ModuleUpload, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "File uploaded successfully",
		TrackingID: trackingID,
		Data:       uploadResponse{DocumentID: doc.ID, Type: docType, FilePath: storedPath},
	})
}

func (h *Handler) storeToLocal(tmp *os.File, name string) (string, error) {
	if err := os.MkdirAll(h.localDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage dir: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("seek: %w", err)
	}
	finalPath, err := filepath.Abs(filepath.Join(h.localDir, name))
	if err != nil {
		return "", err
	}
	out, err := os.Create(finalPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, tmp); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return finalPath, nil
}

func (h *Handler) storeToS3(ctx context.Context, tmp *os.File, name, docType string) (string, error) {
	if _, err := h.objects.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(h.bucket)}); err != nil {
		_, crtErr := h.objects.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(h.bucket)})
		if crtErr != nil {
			var owned *s3types.BucketAlreadyOwnedByYou
			if !errors.As(crtErr, &owned) {
				return "", fmt.Errorf("create bucket: %w", crtErr)
			}
		}
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("seek: %w", err)
	}
	key := "documents/" + name
	_, err := h.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        tmp,
		ContentType: aws.String(contentTypes[docType]),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", h.bucket, key), nil
}

func hexSum(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
