package blob

import (
	"context"
	"fmt"
	"log/slog"

	"drive/internal/config"
	"drive/internal/domain/services"
)

// Backend names accepted in BLOB_BACKEND
const (
	BackendLocal  = "local"
	BackendMemory = "memory"
	BackendMinio  = "minio"
	BackendS3     = "s3"
)

// New builds the blob store selected by cfg.BlobBackend
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.BlobStore, error) {
	switch cfg.BlobBackend {
	case BackendLocal, "":
		return NewLocalStore(cfg.BlobLocalDir, logger)
	case BackendMemory:
		return NewMemoryStore(logger), nil
	case BackendMinio:
		return NewMinioStore(ctx, MinioConfig{
			Endpoint:        cfg.MinioEndpoint,
			AccessKeyID:     cfg.MinioUser,
			SecretAccessKey: cfg.MinioPassword,
			UseSSL:          cfg.MinioUseSSL,
			BucketName:      cfg.MinioBucket,
		}, logger)
	case BackendS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required for the s3 blob backend")
		}
		return NewS3Store(ctx, S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			KeyPrefix:       cfg.S3Prefix,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}
