package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	infraconfig "github.com/pms/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// S3ArchiveStore mirrors backup archives to an S3 bucket. It works with any
// S3-compatible backend.
type S3ArchiveStore struct {
	client *s3.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// S3ArchiveStoreOption is a functional option for configuring S3ArchiveStore
type S3ArchiveStoreOption func(*S3ArchiveStore)

// WithLogger sets a custom logger for S3ArchiveStore
func WithLogger(logger *zap.Logger) S3ArchiveStoreOption {
	return func(s *S3ArchiveStore) {
		s.logger = logger
	}
}

// WithClient overrides the S3 client, used in tests
func WithClient(client *s3.Client) S3ArchiveStoreOption {
	return func(s *S3ArchiveStore) {
		s.client = client
	}
}

// NewS3ArchiveStore creates an archive store from the backup configuration.
// Credentials come from the config when set, otherwise from the AWS default
// chain. A custom endpoint switches the client to path-style addressing for
// S3-compatible backends.
func NewS3ArchiveStore(cfg *infraconfig.BackupConfig, opts ...S3ArchiveStoreOption) (*S3ArchiveStore, error) {
	if cfg == nil {
		return nil, errors.New("backup configuration is required")
	}
	if cfg.S3Bucket == "" {
		return nil, errors.New("backup S3 bucket is required")
	}

	region := cfg.S3Region
	if region == "" {
		region = "us-east-1"
	}

	store := &S3ArchiveStore{
		bucket: cfg.S3Bucket,
		prefix: strings.Trim(cfg.S3Prefix, "/"),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}

	if store.client == nil {
		loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
		if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
			loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS config: %w", err)
		}

		store.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.S3Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.S3Endpoint)
				o.UsePathStyle = true
			}
		})
	}

	return store, nil
}

// key prepends the configured prefix to an archive name
func (s *S3ArchiveStore) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// Upload stores an archive in the bucket
func (s *S3ArchiveStore) Upload(ctx context.Context, name string, data []byte, contentType string) error {
	if name == "" {
		return errors.New("archive name is required")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload archive %q: %w", name, err)
	}

	s.logger.Info("Archive uploaded to S3",
		zap.String("bucket", s.bucket),
		zap.String("key", s.key(name)),
		zap.Int("bytes", len(data)))
	return nil
}

// Download fetches an archive from the bucket
func (s *S3ArchiveStore) Download(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("archive name is required")
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download archive %q: %w", name, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive %q: %w", name, err)
	}
	return data, nil
}

// Exists checks whether an archive is stored in the bucket
func (s *S3ArchiveStore) Exists(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, errors.New("archive name is required")
	}

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var notFound *types.NotFound
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
			return false, nil
		}
		if strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "NoSuchKey") {
			return false, nil
		}
		return false, fmt.Errorf("failed to check archive %q: %w", name, err)
	}
	return true, nil
}

// Bucket returns the bucket name
func (s *S3ArchiveStore) Bucket() string {
	return s.bucket
}
