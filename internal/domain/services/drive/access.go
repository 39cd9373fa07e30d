package drive

import (
	"context"

	models "drive/internal/domain/models/drive"
)

// AccessService manages grants and exposes the audit trail
type AccessService interface {
	Share(ctx context.Context, req *ShareRequest) (*models.AccessControl, error)

	Unshare(ctx context.Context, actor models.Actor, itemType models.ItemType, itemID, userID string) error

	ListActivity(ctx context.Context, actor models.Actor, itemType models.ItemType, itemID string, limit int) ([]models.Activity, error)
}

// ShareRequest grants a level on an item to another user
type ShareRequest struct {
	Actor    models.Actor       `json:"-"`
	ItemType models.ItemType    `json:"-"`
	ItemID   string             `json:"-"`
	UserID   string             `json:"user_id"`
	Level    models.AccessLevel `json:"level"`
}
