package drive

import (
	"context"
	"time"

	models "drive/internal/domain/models/drive"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create inserts a new folder and fills in its ID and timestamps
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder regardless of trash state
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// Update writes name, parent, flags, tags and metadata of a live folder
	Update(ctx context.Context, folder *models.Folder) error

	// SetDeletedAt trashes (non-nil) or restores (nil) a folder
	SetDeletedAt(ctx context.Context, id string, deletedAt *time.Time) error

	// Delete removes the row. Returns false if the row was already gone.
	Delete(ctx context.Context, id string) (bool, error)

	// ListChildren lists live child folders; parentID nil lists the owner's root
	ListChildren(ctx context.Context, ownerID string, parentID *string) ([]models.Folder, error)

	// ListTrashed lists the owner's trashed folders, most recently trashed first
	ListTrashed(ctx context.Context, ownerID string) ([]models.Folder, error)

	// ListTrashedBefore lists trashed folders of every owner with deleted_at <= cutoff
	ListTrashedBefore(ctx context.Context, cutoff time.Time) ([]models.Folder, error)

	// FindSibling returns the ID of a live folder named name in scope, or "" if none
	FindSibling(ctx context.Context, scope models.NameScope, name string) (string, error)
}
