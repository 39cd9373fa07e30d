package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"drive/internal/domain/services"
)

// S3Config holds the S3 connection settings. Endpoint is set for
// S3-compatible services and switches to path-style addressing.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	KeyPrefix       string
}

// S3Store stores blobs in an S3 bucket; the ref is the full object key
type S3Store struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
	logger    *slog.Logger
}

var _ services.BlobStore = (*S3Store)(nil)

// NewS3Store builds a client from cfg and checks the bucket is reachable
func NewS3Store(ctx context.Context, cfg S3Config, logger *slog.Logger) (*S3Store, error) {
	var opts []func(*awsConfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsConfig.WithRegion(cfg.Region))
	}
	// Fall back to the default credential chain when no static keys are given
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
		return nil, fmt.Errorf("access bucket %s: %w", cfg.Bucket, err)
	}

	logger.Info("s3 blob store initialized", "bucket", cfg.Bucket, "region", cfg.Region, "prefix", cfg.KeyPrefix)
	return NewS3StoreWithClient(client, cfg.Bucket, cfg.KeyPrefix, logger), nil
}

// NewS3StoreWithClient wraps an already configured client
func NewS3StoreWithClient(client *s3.Client, bucket, keyPrefix string, logger *slog.Logger) *S3Store {
	return &S3Store{client: client, bucket: bucket, keyPrefix: keyPrefix, logger: logger}
}

func (s *S3Store) key(p string) string {
	if s.keyPrefix == "" {
		return p
	}
	return path.Join(s.keyPrefix, p)
}

// Put uploads r under the prefixed key
func (s *S3Store) Put(ctx context.Context, p string, r io.Reader, size int64, contentType string) (string, error) {
	key := s.key(p)
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	s.logger.Debug("blob stored", "ref", key, "size", size)
	return key, nil
}

// Delete removes an object. S3 treats a missing key as success.
func (s *S3Store) Delete(ctx context.Context, ref string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// Exists heads the object
func (s *S3Store) Exists(ctx context.Context, ref string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		var notFound *types.NotFound
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
			return false, nil
		}
		return false, fmt.Errorf("head object: %w", err)
	}
	return true, nil
}
