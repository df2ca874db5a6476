// Package storage stages extracted audio in a bucket so the transcription
// service, which requires a remote URI rather than inline bytes, can read it.
// Staged objects are transient and deleted once transcription completes.
package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config selects the staging bucket.
type Config struct {
	Bucket string
	Region string
}

// Stager uploads and removes transient staging objects.
type Stager struct {
	bucket string
	client *s3.Client
}

// New creates a Stager using the default credential chain and the configured
// region.
func New(ctx context.Context, cfg Config) (*Stager, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("storage: load credentials: %w", err)
	}

	return &Stager{
		bucket: cfg.Bucket,
		client: s3.NewFromConfig(awsCfg),
	}, nil
}

// Upload stages a local file under key and returns the object URI.
func (s *Stager) Upload(ctx context.Context, key, localPath, contentType string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s to bucket %s: %w", key, s.bucket, err)
	}

	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// Delete removes a staged object.
func (s *Stager) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s from bucket %s: %w", key, s.bucket, err)
	}
	return nil
}
