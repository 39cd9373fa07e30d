package drive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"drive/internal/config"
	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	"drive/internal/domain/services"
	driveSvc "drive/internal/domain/services/drive"
)

const defaultMimeType = "application/octet-stream"

type fileService struct {
	*core
}

// NewFileService creates a new file service
func NewFileService(deps Deps) driveSvc.FileService {
	return &fileService{core: newCore(deps)}
}

// UploadFile stores the bytes, then commits the metadata row. If the commit
// fails the stored blob is deleted again.
func (s *fileService) UploadFile(ctx context.Context, req *driveSvc.UploadFileRequest) (file *models.File, err error) {
	defer func(start time.Time) { s.Metrics.ObserveOperation("upload_file", err, start) }(time.Now())

	req.Name = strings.TrimSpace(req.Name)
	if err := validateName(req.Name, config.MaxFileNameLength); err != nil {
		return nil, err
	}
	if req.Body == nil || req.Size < 0 {
		return nil, domain.NewValidationError("file content is required")
	}
	if req.MimeType == "" {
		req.MimeType = defaultMimeType
	}

	parent, ownerID, err := s.resolveParent(ctx, req.Actor, req.FolderID, services.OpCreate)
	if err != nil {
		return nil, err
	}
	var folderID *string
	if parent != nil {
		folderID = &parent.ID
	}

	scope := models.NameScope{OwnerID: ownerID, ParentID: folderID, ItemType: models.ItemTypeFile}
	if err := s.rejectDuplicate(ctx, scope, req.Name); err != nil {
		return nil, err
	}

	ref, err := s.storeBlob(ctx, ownerID, req.Name, req.Body, req.Size, req.MimeType)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	file = &models.File{
		Name:      req.Name,
		FolderID:  folderID,
		OwnerID:   ownerID,
		Size:      req.Size,
		MimeType:  req.MimeType,
		BlobRef:   ref,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Files.Create(ctx, file); err != nil {
		s.discardBlob(ctx, ref)
		return nil, fmt.Errorf("create file: %w", err)
	}

	n := node{file: file}
	s.record(ctx, req.Actor, n, models.ActionUpload, fmt.Sprintf("uploaded %q (%d bytes)", file.Name, file.Size))
	s.publish(n, models.EventItemCreated, s.changeEvent(req.Actor, n))

	s.Logger.Info("file uploaded",
		"id", file.ID,
		"name", file.Name,
		"owner_id", file.OwnerID,
		"folder_id", file.FolderID,
		"size", file.Size,
	)

	return file, nil
}

// GetFile returns a file in any lifecycle state
func (s *fileService) GetFile(ctx context.Context, actor models.Actor, id string) (*models.File, error) {
	file, err := s.Files.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Authorizer.Authorize(ctx, actor, models.ItemTypeFile, id, services.OpRead); err != nil {
		return nil, err
	}
	return file, nil
}

// storeBlob writes content under a fresh key in the owner's namespace
func (c *core) storeBlob(ctx context.Context, ownerID, name string, body io.Reader, size int64, mimeType string) (string, error) {
	path := fmt.Sprintf("%s/%s/%s", ownerID, uuid.NewString(), name)
	ref, err := c.Blobs.Put(ctx, path, body, size, mimeType)
	if err != nil {
		return "", &domain.StorageError{Op: "put", Ref: path, Err: err}
	}
	return ref, nil
}

// discardBlob is the compensating delete after a failed metadata commit
func (c *core) discardBlob(ctx context.Context, ref string) {
	if err := c.Blobs.Delete(context.WithoutCancel(ctx), ref); err != nil {
		c.Metrics.RecordBlobDeleteFailure()
		c.Logger.Warn("failed to clean up uploaded blob",
			"ref", ref,
			"error", err,
		)
	}
}
