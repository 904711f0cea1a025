package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"cv-backend/internal/shared/storage/object"
)

// Config holds connection settings for an S3-compatible object store.
type Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	// PublicBaseURL overrides URL construction for returned object URLs.
	// When empty, a public URL is derived from the endpoint.
	PublicBaseURL string
}

// Store implements ObjectStore against an S3-compatible API. Supabase-style
// endpoints require path-style addressing, so that is always enabled.
type Store struct {
	client *s3.Client
	cfg    Config
}

// New creates an S3-backed object store with static credentials.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	return &Store{client: client, cfg: cfg}, nil
}

// Put uploads data under the given key and returns the object's public URL.
func (s *Store) Put(ctx context.Context, key string, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object bucket=%s key=%s: %w", s.cfg.Bucket, key, err)
	}

	return s.publicURL(key), nil
}

// ListBuckets returns the names of all buckets visible to the credentials.
func (s *Store) ListBuckets(ctx context.Context) ([]string, error) {
	out, err := s.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("s3 list buckets: %w", err)
	}
	names := make([]string, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		names = append(names, aws.ToString(b.Name))
	}
	return names, nil
}

// Bucket returns the configured bucket name.
func (s *Store) Bucket() string {
	return s.cfg.Bucket
}

func (s *Store) publicURL(key string) string {
	if base := strings.TrimRight(s.cfg.PublicBaseURL, "/"); base != "" {
		return fmt.Sprintf("%s/%s/%s", base, s.cfg.Bucket, key)
	}
	// Supabase exposes objects on /storage/v1/object/public while the S3 API
	// lives on /storage/v1/s3.
	base := strings.TrimRight(s.cfg.Endpoint, "/")
	if idx := strings.Index(base, "/storage/v1/s3"); idx >= 0 {
		return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", base[:idx], s.cfg.Bucket, key)
	}
	return fmt.Sprintf("%s/%s/%s", base, s.cfg.Bucket, key)
}

var _ object.ObjectStore = (*Store)(nil)
