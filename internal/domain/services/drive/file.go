package drive

import (
	"context"
	"io"

	models "drive/internal/domain/models/drive"
)

// FileService handles file upload and lookup
type FileService interface {
	// UploadFile runs the upload pipeline: blob stored, then metadata committed.
	// A failed commit deletes the just-written blob.
	UploadFile(ctx context.Context, req *UploadFileRequest) (*models.File, error)

	GetFile(ctx context.Context, actor models.Actor, id string) (*models.File, error)
}

// UploadFileRequest carries a received upload
type UploadFileRequest struct {
	Actor    models.Actor
	Name     string
	FolderID *string // nil or "root" for the actor's root
	MimeType string
	Size     int64
	Body     io.Reader
}
