package drive

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	driveRepo "drive/internal/domain/repositories/drive"
	"drive/internal/repository/postgres"
)

const fileColumns = `id, name, folder_id, owner_id, size, mime_type, blob_ref, is_starred, created_at, updated_at, deleted_at`

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *postgres.RepositoryConfig) driveRepo.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a file record
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, folder_id, owner_id, size, mime_type, blob_ref, is_starred, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		file.Name,
		file.FolderID,
		file.OwnerID,
		file.Size,
		file.MimeType,
		file.BlobRef,
		file.IsStarred,
		file.CreatedAt,
		file.UpdatedAt,
	).Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// GetByID retrieves a file by ID, trashed or not
func (r *PostgresFileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, &domain.NotFoundError{ItemType: string(models.ItemTypeFile), ID: id}
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, fileColumns, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	file, err := scanFile(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{ItemType: string(models.ItemTypeFile), ID: id}
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return file, nil
}

// Update writes name, location, content metadata and flags
func (r *PostgresFileRepository) Update(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, folder_id = $2, size = $3, mime_type = $4, blob_ref = $5, is_starred = $6, updated_at = $7
		WHERE id = $8
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		file.Name,
		file.FolderID,
		file.Size,
		file.MimeType,
		file.BlobRef,
		file.IsStarred,
		file.UpdatedAt,
		file.ID,
	)
	if err != nil {
		return fmt.Errorf("update file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{ItemType: string(models.ItemTypeFile), ID: file.ID}
	}

	return nil
}

// SetDeletedAt trashes or restores a file
func (r *PostgresFileRepository) SetDeletedAt(ctx context.Context, id string, deletedAt *time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = $1, updated_at = NOW()
		WHERE id = $2
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, deletedAt, id)
	if err != nil {
		return fmt.Errorf("set file deleted_at: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{ItemType: string(models.ItemTypeFile), ID: id}
	}

	return nil
}

// Delete hard-deletes a file row; version rows go with it via ON DELETE CASCADE
func (r *PostgresFileRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete file: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ListByFolder lists live files in folderID, or the owner's root when nil
func (r *PostgresFileRepository) ListByFolder(ctx context.Context, ownerID string, folderID *string) ([]models.File, error) {
	var query string
	var args []any

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE owner_id = $1 AND folder_id IS NULL AND deleted_at IS NULL
			ORDER BY name ASC
		`, fileColumns, r.tables.Files)
		args = append(args, ownerID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE folder_id = $1 AND deleted_at IS NULL
			ORDER BY name ASC
		`, fileColumns, r.tables.Files)
		args = append(args, *folderID)
	}

	return r.queryFiles(ctx, "list files", query, args...)
}

// ListTrashed lists an owner's trashed files
func (r *PostgresFileRepository) ListTrashed(ctx context.Context, ownerID string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_id = $1 AND deleted_at IS NOT NULL
		ORDER BY deleted_at DESC
	`, fileColumns, r.tables.Files)

	return r.queryFiles(ctx, "list trashed files", query, ownerID)
}

// ListTrashedBefore lists files of all owners trashed at or before cutoff
func (r *PostgresFileRepository) ListTrashedBefore(ctx context.Context, cutoff time.Time) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE deleted_at IS NOT NULL AND deleted_at <= $1
		ORDER BY deleted_at ASC
	`, fileColumns, r.tables.Files)

	return r.queryFiles(ctx, "list expired files", query, cutoff)
}

// FindSibling returns the ID of a live file with the given name in scope
func (r *PostgresFileRepository) FindSibling(ctx context.Context, scope models.NameScope, name string) (string, error) {
	query := fmt.Sprintf(`
		SELECT id FROM %s
		WHERE owner_id = $1
		  AND folder_id IS NOT DISTINCT FROM $2::uuid
		  AND name = $3
		  AND deleted_at IS NULL
		  AND ($4 = '' OR id::text <> $4)
		LIMIT 1
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	var id string
	err := executor.QueryRow(ctx, query, scope.OwnerID, scope.ParentID, name, scope.ExcludeID).Scan(&id)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return "", nil
		}
		return "", fmt.Errorf("find sibling file: %w", err)
	}

	return id, nil
}

func (r *PostgresFileRepository) queryFiles(ctx context.Context, op, query string, args ...any) ([]models.File, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	files := []models.File{}
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, *file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}

func scanFile(row pgx.Row) (*models.File, error) {
	var file models.File
	err := row.Scan(
		&file.ID,
		&file.Name,
		&file.FolderID,
		&file.OwnerID,
		&file.Size,
		&file.MimeType,
		&file.BlobRef,
		&file.IsStarred,
		&file.CreatedAt,
		&file.UpdatedAt,
		&file.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &file, nil
}
