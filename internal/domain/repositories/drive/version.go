package drive

import (
	"context"

	models "drive/internal/domain/models/drive"
)

// FileVersionRepository stores immutable file snapshots
type FileVersionRepository interface {
	Create(ctx context.Context, version *models.FileVersion) error

	GetByID(ctx context.Context, id string) (*models.FileVersion, error)

	// ListByFile returns versions newest first
	ListByFile(ctx context.Context, fileID string) ([]models.FileVersion, error)

	// DeleteByFile removes every version of a file and returns the removed rows
	DeleteByFile(ctx context.Context, fileID string) ([]models.FileVersion, error)
}
