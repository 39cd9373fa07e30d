package drive

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"drive/internal/config"
	models "drive/internal/domain/models/drive"
	"drive/internal/domain/services"
	driveSvc "drive/internal/domain/services/drive"
)

type folderService struct {
	*core
}

// NewFolderService creates a new folder service
func NewFolderService(deps Deps) driveSvc.FolderService {
	return &folderService{core: newCore(deps)}
}

// CreateFolder creates a folder under a live parent, rejecting duplicate names
func (s *folderService) CreateFolder(ctx context.Context, req *driveSvc.CreateFolderRequest) (folder *models.Folder, err error) {
	defer func(start time.Time) { s.Metrics.ObserveOperation("create_folder", err, start) }(time.Now())

	req.Name = strings.TrimSpace(req.Name)
	if err := validateName(req.Name, config.MaxFolderNameLength); err != nil {
		return nil, err
	}
	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return nil, err
	}

	parent, ownerID, err := s.resolveParent(ctx, req.Actor, req.ParentID, services.OpCreate)
	if err != nil {
		return nil, err
	}
	var parentID *string
	if parent != nil {
		parentID = &parent.ID
	}

	scope := models.NameScope{OwnerID: ownerID, ParentID: parentID, ItemType: models.ItemTypeFolder}
	if err := s.rejectDuplicate(ctx, scope, req.Name); err != nil {
		return nil, err
	}

	now := s.Now()
	folder = &models.Folder{
		Name:      req.Name,
		ParentID:  parentID,
		OwnerID:   ownerID,
		IsPublic:  req.IsPublic,
		Tags:      tags,
		Metadata:  maps.Clone(req.Metadata),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Folders.Create(ctx, folder); err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}

	n := node{folder: folder}
	s.record(ctx, req.Actor, n, models.ActionCreate, fmt.Sprintf("created folder %q", folder.Name))
	s.publish(n, models.EventItemCreated, s.changeEvent(req.Actor, n))

	s.Logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"owner_id", folder.OwnerID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// GetFolder returns a folder in any lifecycle state
func (s *folderService) GetFolder(ctx context.Context, actor models.Actor, id string) (*models.Folder, error) {
	folder, err := s.Folders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Authorizer.Authorize(ctx, actor, models.ItemTypeFolder, id, services.OpRead); err != nil {
		return nil, err
	}
	return folder, nil
}

// ListChildren lists the live folders and files directly inside folderID
func (s *folderService) ListChildren(ctx context.Context, actor models.Actor, folderID *string) (*driveSvc.FolderContents, error) {
	parent, ownerID, err := s.resolveParent(ctx, actor, folderID, services.OpRead)
	if err != nil {
		return nil, err
	}
	var parentID *string
	if parent != nil {
		parentID = &parent.ID
	}

	folders, err := s.Folders.ListChildren(ctx, ownerID, parentID)
	if err != nil {
		return nil, fmt.Errorf("list child folders: %w", err)
	}
	files, err := s.Files.ListByFolder(ctx, ownerID, parentID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	return &driveSvc.FolderContents{
		Folder:  parent,
		Folders: folders,
		Files:   files,
	}, nil
}

// SetTags replaces a folder's tags
func (s *folderService) SetTags(ctx context.Context, actor models.Actor, id string, tags []string) (*models.Folder, error) {
	normalized, err := normalizeTags(tags)
	if err != nil {
		return nil, err
	}

	n, err := s.getLiveNode(ctx, models.ItemTypeFolder, id)
	if err != nil {
		return nil, err
	}
	if err := s.Authorizer.Authorize(ctx, actor, models.ItemTypeFolder, id, services.OpTag); err != nil {
		return nil, err
	}

	n.folder.Tags = normalized
	n.touch(s.Now())
	if err := s.saveNode(ctx, n); err != nil {
		return nil, fmt.Errorf("update tags: %w", err)
	}

	s.record(ctx, actor, n, models.ActionTag, fmt.Sprintf("set tags [%s]", strings.Join(normalized, ", ")))
	s.publish(n, models.EventItemUpdated, s.changeEvent(actor, n))

	return n.folder, nil
}

// SetPublic toggles public visibility of a folder subtree
func (s *folderService) SetPublic(ctx context.Context, actor models.Actor, id string, public bool) (*models.Folder, error) {
	n, err := s.getLiveNode(ctx, models.ItemTypeFolder, id)
	if err != nil {
		return nil, err
	}
	if err := s.Authorizer.Authorize(ctx, actor, models.ItemTypeFolder, id, services.OpShare); err != nil {
		return nil, err
	}

	n.folder.IsPublic = public
	n.touch(s.Now())
	if err := s.saveNode(ctx, n); err != nil {
		return nil, fmt.Errorf("update visibility: %w", err)
	}

	s.publish(n, models.EventItemUpdated, s.changeEvent(actor, n))
	return n.folder, nil
}
