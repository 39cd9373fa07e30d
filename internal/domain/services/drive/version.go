package drive

import (
	"context"
	"io"

	models "drive/internal/domain/models/drive"
)

// VersionService manages file version history
type VersionService interface {
	// RecordNewVersion snapshots the current file state, then overwrites it with content
	RecordNewVersion(ctx context.Context, fileID string, content models.FileContent) (*models.File, error)

	// UploadNewVersion stores the blob and records a new version, cleaning up the blob on failure
	UploadNewVersion(ctx context.Context, req *UploadVersionRequest) (*models.File, error)

	ListVersions(ctx context.Context, actor models.Actor, fileID string) ([]models.FileVersion, error)

	// RestoreVersion copies a snapshot onto the file without snapshotting the replaced state
	RestoreVersion(ctx context.Context, actor models.Actor, fileID, versionID string) (*models.File, error)
}

// UploadVersionRequest carries new content for an existing file
type UploadVersionRequest struct {
	Actor    models.Actor
	FileID   string
	Name     string // empty keeps the current name
	MimeType string
	Size     int64
	Body     io.Reader
}
