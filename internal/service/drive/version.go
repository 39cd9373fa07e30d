package drive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"drive/internal/config"
	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	"drive/internal/domain/services"
	driveSvc "drive/internal/domain/services/drive"
)

type versionService struct {
	*core
}

// NewVersionService creates the version manager
func NewVersionService(deps Deps) driveSvc.VersionService {
	return &versionService{core: newCore(deps)}
}

// RecordNewVersion snapshots the file's current content, then overwrites the
// file row with content. Both writes share one transaction.
func (s *versionService) RecordNewVersion(ctx context.Context, fileID string, content models.FileContent) (*models.File, error) {
	var file *models.File
	err := s.TxManager.ExecTx(ctx, func(ctx context.Context) error {
		n, err := s.getLiveNode(ctx, models.ItemTypeFile, fileID)
		if err != nil {
			return err
		}
		file = n.file

		now := s.Now()
		current := file.Content()
		snapshot := &models.FileVersion{
			FileID:    file.ID,
			Name:      current.Name,
			Size:      current.Size,
			MimeType:  current.MimeType,
			BlobRef:   current.BlobRef,
			CreatedAt: now,
		}
		if err := s.Versions.Create(ctx, snapshot); err != nil {
			return fmt.Errorf("snapshot version: %w", err)
		}

		file.ApplyContent(content)
		file.UpdatedAt = now
		if err := s.Files.Update(ctx, file); err != nil {
			return fmt.Errorf("overwrite file: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

// UploadNewVersion stores new bytes for a file and records the version. The
// stored blob is deleted again if recording fails.
func (s *versionService) UploadNewVersion(ctx context.Context, req *driveSvc.UploadVersionRequest) (file *models.File, err error) {
	defer func(start time.Time) { s.Metrics.ObserveOperation("upload_version", err, start) }(time.Now())

	if req.Body == nil || req.Size < 0 {
		return nil, domain.NewValidationError("file content is required")
	}

	n, err := s.getLiveNode(ctx, models.ItemTypeFile, req.FileID)
	if err != nil {
		return nil, err
	}
	if err := s.Authorizer.Authorize(ctx, req.Actor, models.ItemTypeFile, n.ID(), services.OpUploadVersion); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = n.Name()
	} else {
		if err := validateName(name, config.MaxFileNameLength); err != nil {
			return nil, err
		}
		if name != n.Name() {
			if err := s.rejectDuplicate(ctx, n.scope(), name); err != nil {
				return nil, err
			}
		}
	}
	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = n.file.MimeType
	}

	ref, err := s.storeBlob(ctx, n.OwnerID(), name, req.Body, req.Size, mimeType)
	if err != nil {
		return nil, err
	}

	file, err = s.RecordNewVersion(ctx, n.ID(), models.FileContent{
		Name:     name,
		Size:     req.Size,
		MimeType: mimeType,
		BlobRef:  ref,
	})
	if err != nil {
		s.discardBlob(ctx, ref)
		return nil, err
	}

	updated := node{file: file}
	s.record(ctx, req.Actor, updated, models.ActionNewVersion, fmt.Sprintf("uploaded a new version of %q (%d bytes)", file.Name, file.Size))
	s.publish(updated, models.EventVersionCreated, s.changeEvent(req.Actor, updated))

	return file, nil
}

// ListVersions returns a file's snapshots newest first. A permanently deleted
// file took its versions with it, so its list is empty.
func (s *versionService) ListVersions(ctx context.Context, actor models.Actor, fileID string) ([]models.FileVersion, error) {
	if _, err := s.getNode(ctx, models.ItemTypeFile, fileID); err != nil {
		if domain.IsNotFound(err) {
			return []models.FileVersion{}, nil
		}
		return nil, err
	}
	if err := s.Authorizer.Authorize(ctx, actor, models.ItemTypeFile, fileID, services.OpListVersions); err != nil {
		return nil, err
	}

	versions, err := s.Versions.ListByFile(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	return versions, nil
}

// RestoreVersion copies a snapshot onto the file. The content being replaced
// is not snapshotted, so it is lost unless an earlier version already holds it.
func (s *versionService) RestoreVersion(ctx context.Context, actor models.Actor, fileID, versionID string) (file *models.File, err error) {
	defer func(start time.Time) { s.Metrics.ObserveOperation("restore_version", err, start) }(time.Now())

	n, err := s.getLiveNode(ctx, models.ItemTypeFile, fileID)
	if err != nil {
		return nil, err
	}
	if err := s.Authorizer.Authorize(ctx, actor, models.ItemTypeFile, fileID, services.OpRestoreVersion); err != nil {
		return nil, err
	}

	version, err := s.Versions.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if version.FileID != fileID {
		return nil, &domain.NotFoundError{ItemType: "version", ID: versionID}
	}

	file = n.file
	file.ApplyContent(version.Content())
	file.UpdatedAt = s.Now()
	if err := s.Files.Update(ctx, file); err != nil {
		return nil, fmt.Errorf("restore version: %w", err)
	}

	s.record(ctx, actor, n, models.ActionRestoreVersion, fmt.Sprintf("restored version from %s", version.CreatedAt.Format(time.RFC3339)))
	s.publish(n, models.EventVersionRestored, s.changeEvent(actor, n))

	return file, nil
}
