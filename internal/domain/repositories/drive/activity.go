package drive

import (
	"context"

	models "drive/internal/domain/models/drive"
)

// ActivityRepository persists the audit trail
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error

	// ListByItem returns the newest entries for an item, at most limit
	ListByItem(ctx context.Context, itemID string, limit int) ([]models.Activity, error)
}
