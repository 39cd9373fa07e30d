package drive

import (
	"context"

	models "drive/internal/domain/models/drive"
)

// AccessRepository stores per-item access grants
type AccessRepository interface {
	// Grant inserts or replaces the grant for (user, item)
	Grant(ctx context.Context, grant *models.AccessControl) error

	Revoke(ctx context.Context, userID string, itemType models.ItemType, itemID string) error

	// GetLevel returns AccessNone when no grant exists
	GetLevel(ctx context.Context, userID string, itemType models.ItemType, itemID string) (models.AccessLevel, error)

	// DeleteByItem drops every grant on an item
	DeleteByItem(ctx context.Context, itemType models.ItemType, itemID string) error
}
