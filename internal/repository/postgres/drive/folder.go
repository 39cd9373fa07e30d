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

const folderColumns = `id, name, parent_id, owner_id, is_starred, is_public, tags, metadata, created_at, updated_at, deleted_at`

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *postgres.RepositoryConfig) driveRepo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new folder. Sibling uniqueness is enforced by the caller.
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if folder.Tags == nil {
		folder.Tags = []string{}
	}
	if folder.Metadata == nil {
		folder.Metadata = map[string]any{}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (name, parent_id, owner_id, is_starred, is_public, tags, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.Name,
		folder.ParentID,
		folder.OwnerID,
		folder.IsStarred,
		folder.IsPublic,
		folder.Tags,
		folder.Metadata,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID, trashed or not
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, &domain.NotFoundError{ItemType: string(models.ItemTypeFolder), ID: id}
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{ItemType: string(models.ItemTypeFolder), ID: id}
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

// Update writes the mutable columns of a folder
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	if folder.Tags == nil {
		folder.Tags = []string{}
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, parent_id = $2, is_starred = $3, is_public = $4, tags = $5, metadata = $6, updated_at = $7
		WHERE id = $8
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.Name,
		folder.ParentID,
		folder.IsStarred,
		folder.IsPublic,
		folder.Tags,
		folder.Metadata,
		folder.UpdatedAt,
		folder.ID,
	)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{ItemType: string(models.ItemTypeFolder), ID: folder.ID}
	}

	return nil
}

// SetDeletedAt trashes or restores a folder
func (r *PostgresFolderRepository) SetDeletedAt(ctx context.Context, id string, deletedAt *time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = $1, updated_at = NOW()
		WHERE id = $2
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, deletedAt, id)
	if err != nil {
		return fmt.Errorf("set folder deleted_at: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{ItemType: string(models.ItemTypeFolder), ID: id}
	}

	return nil
}

// Delete hard-deletes a folder row. Children are left untouched.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete folder: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ListChildren lists live child folders of parentID, or the owner's root when nil
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, ownerID string, parentID *string) ([]models.Folder, error) {
	var query string
	var args []any

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE owner_id = $1 AND parent_id IS NULL AND deleted_at IS NULL
			ORDER BY name ASC
		`, folderColumns, r.tables.Folders)
		args = append(args, ownerID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE parent_id = $1 AND deleted_at IS NULL
			ORDER BY name ASC
		`, folderColumns, r.tables.Folders)
		args = append(args, *parentID)
	}

	return r.queryFolders(ctx, "list folder children", query, args...)
}

// ListTrashed lists an owner's trashed folders
func (r *PostgresFolderRepository) ListTrashed(ctx context.Context, ownerID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_id = $1 AND deleted_at IS NOT NULL
		ORDER BY deleted_at DESC
	`, folderColumns, r.tables.Folders)

	return r.queryFolders(ctx, "list trashed folders", query, ownerID)
}

// ListTrashedBefore lists folders of all owners trashed at or before cutoff
func (r *PostgresFolderRepository) ListTrashedBefore(ctx context.Context, cutoff time.Time) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE deleted_at IS NOT NULL AND deleted_at <= $1
		ORDER BY deleted_at ASC
	`, folderColumns, r.tables.Folders)

	return r.queryFolders(ctx, "list expired folders", query, cutoff)
}

// FindSibling returns the ID of a live folder with the given name in scope
func (r *PostgresFolderRepository) FindSibling(ctx context.Context, scope models.NameScope, name string) (string, error) {
	query := fmt.Sprintf(`
		SELECT id FROM %s
		WHERE owner_id = $1
		  AND parent_id IS NOT DISTINCT FROM $2::uuid
		  AND name = $3
		  AND deleted_at IS NULL
		  AND ($4 = '' OR id::text <> $4)
		LIMIT 1
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	var id string
	err := executor.QueryRow(ctx, query, scope.OwnerID, scope.ParentID, name, scope.ExcludeID).Scan(&id)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return "", nil
		}
		return "", fmt.Errorf("find sibling folder: %w", err)
	}

	return id, nil
}

func (r *PostgresFolderRepository) queryFolders(ctx context.Context, op, query string, args ...any) ([]models.Folder, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.Name,
		&folder.ParentID,
		&folder.OwnerID,
		&folder.IsStarred,
		&folder.IsPublic,
		&folder.Tags,
		&folder.Metadata,
		&folder.CreatedAt,
		&folder.UpdatedAt,
		&folder.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}
