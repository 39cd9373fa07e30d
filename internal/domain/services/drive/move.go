package drive

import (
	"context"

	models "drive/internal/domain/models/drive"
)

// MoveCoordinator orchestrates validated structural mutations
type MoveCoordinator interface {
	// Move relocates an item, auto-renaming it on a name collision in the destination
	Move(ctx context.Context, req *MoveRequest) (*MoveResult, error)

	// Rename changes an item's name in place
	Rename(ctx context.Context, req *RenameRequest) (*ItemResult, error)

	// SetStarred toggles the starred flag
	SetStarred(ctx context.Context, actor models.Actor, itemType models.ItemType, id string, starred bool) (*ItemResult, error)
}

// MoveRequest represents a move of a file or folder
type MoveRequest struct {
	Actor         models.Actor    `json:"-"`
	ItemID        string          `json:"-"`
	ItemType      models.ItemType `json:"-"`
	DestinationID string          `json:"destinationFolderId"` // folder id or "root"
}

// RenameRequest represents a plain rename
type RenameRequest struct {
	Actor    models.Actor    `json:"-"`
	ItemID   string          `json:"-"`
	ItemType models.ItemType `json:"-"`
	Name     string          `json:"name"`
}

// ItemResult wraps whichever item type an operation touched
type ItemResult struct {
	Type   models.ItemType `json:"type"`
	Folder *models.Folder  `json:"folder,omitempty"`
	File   *models.File    `json:"file,omitempty"`
}

// MoveResult reports the moved item and whether its name changed
type MoveResult struct {
	ItemResult
	Renamed      bool   `json:"renamed"`
	PreviousName string `json:"previous_name,omitempty"`
}
