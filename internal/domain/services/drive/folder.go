package drive

import (
	"context"

	models "drive/internal/domain/models/drive"
)

// FolderService handles folder creation, lookup and metadata
type FolderService interface {
	// CreateFolder rejects with DuplicateNameError when a live sibling has the same name
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	GetFolder(ctx context.Context, actor models.Actor, id string) (*models.Folder, error)

	// ListChildren lists live folders and files; folderID nil lists the actor's root
	ListChildren(ctx context.Context, actor models.Actor, folderID *string) (*FolderContents, error)

	SetTags(ctx context.Context, actor models.Actor, id string, tags []string) (*models.Folder, error)

	SetPublic(ctx context.Context, actor models.Actor, id string, public bool) (*models.Folder, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Actor    models.Actor   `json:"-"`
	Name     string         `json:"name"`
	ParentID *string        `json:"parent_id,omitempty"` // nil or "root" for the actor's root
	IsPublic bool           `json:"is_public"`
	Tags     []string       `json:"tags,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// FolderContents represents a folder with its live children
type FolderContents struct {
	Folder  *models.Folder  `json:"folder,omitempty"` // null for root
	Folders []models.Folder `json:"folders"`
	Files   []models.File   `json:"files"`
}
