package drive

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	driveRepo "drive/internal/domain/repositories/drive"
	"drive/internal/repository/postgres"
)

const versionColumns = `id, file_id, name, size, mime_type, blob_ref, created_at`

// PostgresFileVersionRepository implements the FileVersionRepository interface
type PostgresFileVersionRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewFileVersionRepository creates a new file version repository
func NewFileVersionRepository(config *postgres.RepositoryConfig) driveRepo.FileVersionRepository {
	return &PostgresFileVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a version snapshot
func (r *PostgresFileVersionRepository) Create(ctx context.Context, version *models.FileVersion) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (file_id, name, size, mime_type, blob_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, r.tables.FileVersions)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		version.FileID,
		version.Name,
		version.Size,
		version.MimeType,
		version.BlobRef,
		version.CreatedAt,
	).Scan(&version.ID, &version.CreatedAt)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return &domain.NotFoundError{ItemType: string(models.ItemTypeFile), ID: version.FileID}
		}
		return fmt.Errorf("create file version: %w", err)
	}

	return nil
}

// GetByID retrieves a version by ID
func (r *PostgresFileVersionRepository) GetByID(ctx context.Context, id string) (*models.FileVersion, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, &domain.NotFoundError{ItemType: "version", ID: id}
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, versionColumns, r.tables.FileVersions)

	var v models.FileVersion
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.FileID, &v.Name, &v.Size, &v.MimeType, &v.BlobRef, &v.CreatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{ItemType: "version", ID: id}
		}
		return nil, fmt.Errorf("get file version: %w", err)
	}

	return &v, nil
}

// ListByFile returns a file's versions, newest first
func (r *PostgresFileVersionRepository) ListByFile(ctx context.Context, fileID string) ([]models.FileVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE file_id = $1
		ORDER BY created_at DESC, id DESC
	`, versionColumns, r.tables.FileVersions)

	return r.query(ctx, "list file versions", query, fileID)
}

// DeleteByFile removes a file's versions and returns what was removed so the
// caller can release the blobs
func (r *PostgresFileVersionRepository) DeleteByFile(ctx context.Context, fileID string) ([]models.FileVersion, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE file_id = $1
		RETURNING %s
	`, r.tables.FileVersions, versionColumns)

	return r.query(ctx, "delete file versions", query, fileID)
}

func (r *PostgresFileVersionRepository) query(ctx context.Context, op, query string, args ...any) ([]models.FileVersion, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	versions := []models.FileVersion{}
	for rows.Next() {
		var v models.FileVersion
		if err := rows.Scan(&v.ID, &v.FileID, &v.Name, &v.Size, &v.MimeType, &v.BlobRef, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan file version: %w", err)
		}
		versions = append(versions, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file versions: %w", err)
	}

	return versions, nil
}
