package drive

import (
	"context"
	"time"

	models "drive/internal/domain/models/drive"
)

// FileRepository defines data access operations for files
type FileRepository interface {
	// Create inserts a new file and fills in its ID and timestamps
	Create(ctx context.Context, file *models.File) error

	// GetByID retrieves a file regardless of trash state
	GetByID(ctx context.Context, id string) (*models.File, error)

	// Update writes name, folder, content metadata and flags of a live file
	Update(ctx context.Context, file *models.File) error

	// SetDeletedAt trashes (non-nil) or restores (nil) a file
	SetDeletedAt(ctx context.Context, id string, deletedAt *time.Time) error

	// Delete removes the row. Returns false if the row was already gone.
	Delete(ctx context.Context, id string) (bool, error)

	// ListByFolder lists live files; folderID nil lists the owner's root
	ListByFolder(ctx context.Context, ownerID string, folderID *string) ([]models.File, error)

	// ListTrashed lists the owner's trashed files, most recently trashed first
	ListTrashed(ctx context.Context, ownerID string) ([]models.File, error)

	// ListTrashedBefore lists trashed files of every owner with deleted_at <= cutoff
	ListTrashedBefore(ctx context.Context, cutoff time.Time) ([]models.File, error)

	// FindSibling returns the ID of a live file named name in scope, or "" if none
	FindSibling(ctx context.Context, scope models.NameScope, name string) (string, error)
}
