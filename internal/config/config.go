package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string // empty runs on the in-memory tree store
	TablePrefix string
	CORSOrigins string
	// Auth
	JWKSURL     string
	DevAuthUser string // dev only: trusted X-User-ID header instead of JWT
	// Blob storage
	BlobBackend   string // local | minio | s3
	BlobLocalDir  string
	MinioEndpoint string
	MinioUser     string
	MinioPassword string
	MinioBucket   string
	MinioUseSSL   bool
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3Prefix      string
	// Trash lifecycle
	TrashRetention time.Duration
	PurgeInterval  time.Duration
	PurgeEnabled   bool
	// Uploads
	MaxUploadBytes int64
	// Logging
	LogDir      string
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		TablePrefix: getTablePrefix(env),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		JWKSURL:     getEnv("JWKS_URL", ""),
		DevAuthUser: getDevAuthUser(env),
		// Blob storage
		BlobBackend:   getEnv("BLOB_BACKEND", "local"),
		BlobLocalDir:  getEnv("BLOB_LOCAL_DIR", "./data/blobs"),
		MinioEndpoint: getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioUser:     getEnv("MINIO_USER", "minioadmin"),
		MinioPassword: getEnv("MINIO_PASSWORD", "minioadmin"),
		MinioBucket:   getEnv("MINIO_BUCKET", "drive-blobs"),
		MinioUseSSL:   getEnv("MINIO_USE_SSL", "false") == "true",
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		S3AccessKey:   getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:   getEnv("S3_SECRET_KEY", ""),
		S3Prefix:      getEnv("S3_PREFIX", ""),
		// Trash lifecycle
		TrashRetention: time.Duration(getEnvInt("TRASH_RETENTION_DAYS", DefaultTrashRetentionDays)) * 24 * time.Hour,
		PurgeInterval:  getEnvDuration("PURGE_INTERVAL", 24*time.Hour),
		PurgeEnabled:   getEnv("PURGE_ENABLED", "true") == "true",
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)),
		LogDir:         getEnv("LOG_DIR", ""),
		LogMaxFiles:    getEnvInt("LOG_MAX_FILES", 10),
	}
}

// IsDev reports whether dev-only features are enabled
func (c *Config) IsDev() bool {
	return c.Environment == "dev"
}

// getDevAuthUser only honours AUTH_DEV_USER outside production
func getDevAuthUser(env string) string {
	if env == "prod" {
		return ""
	}
	return getEnv("AUTH_DEV_USER", "")
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
