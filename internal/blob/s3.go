// Package blob stores uploaded images and returns their public URLs.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the slice of the S3 client the store uses
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes objects to an S3 bucket.
type S3Store struct {
	client  PutObjectAPI
	bucket  string
	baseURL string
	logger  *slog.Logger
}

// NewS3Store creates a store from the default AWS credential chain.
// baseURL overrides the public URL prefix, e.g. for a CDN in front of the bucket.
func NewS3Store(ctx context.Context, bucket, region, baseURL string, logger *slog.Logger) (*S3Store, error) {
	if bucket == "" {
		return nil, errors.New("S3 bucket name is not set")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info("S3 blob store initialized", "bucket", bucket, "region", region)
	return NewS3StoreWithClient(s3.NewFromConfig(cfg), bucket, baseURL, logger), nil
}

// NewS3StoreWithClient creates a store over an existing client
func NewS3StoreWithClient(client PutObjectAPI, bucket, baseURL string, logger *slog.Logger) *S3Store {
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return &S3Store{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// Put uploads data under key and returns its public URL
func (s *S3Store) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return s.baseURL + "/" + key, nil
}
