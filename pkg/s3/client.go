package s3

import (
	"context"
	"doc-rag/config"

	"github.com/aws/aws-sdk-go-v2/aws"

	s3_config "github.com/aws/aws-sdk-go-v2/config"
	s3_credentials "github.com/aws/aws-sdk-go-v2/credentials"
	s3_provider "github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewClient builds an S3 client; a non-empty endpoint switches to path-style
// addressing for MinIO and other S3-compatible stores.
func NewClient(ctx context.Context, s3cfg config.Config) (*s3_provider.Client, error) {
	region := s3cfg.S3.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*s3_config.LoadOptions) error{
		s3_config.WithRegion(region),
	}
	if s3cfg.S3.AccessKey != "" && s3cfg.S3.SecretKey != "" {
		opts = append(opts, s3_config.WithCredentialsProvider(
			s3_credentials.NewStaticCredentialsProvider(
				s3cfg.S3.AccessKey,
				s3cfg.S3.SecretKey,
				"",
			),
		))
	}

	cfg, err := s3_config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	endpoint := s3cfg.S3.Endpoint
	client := s3_provider.NewFromConfig(cfg, func(o *s3_provider.Options) {
		if endpoint != "" {
			o.UsePathStyle = true
			o.BaseEndpoint = aws.String(endpoint) // e.g., http://localhost:9000
		}
	})
	return client, nil
}

// GetClient builds a client from the global config.
func GetClient() (*s3_provider.Client, error) {
	return NewClient(context.TODO(), config.Cfg)
}
