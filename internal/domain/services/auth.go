package services

import (
	"context"

	models "drive/internal/domain/models/drive"
)

// Operation names looked up in the access policy
const (
	OpRead            = "read"
	OpCreate          = "create"
	OpRename          = "rename"
	OpMove            = "move"
	OpMoveInto        = "move_into"
	OpStar            = "star"
	OpTag             = "tag"
	OpTrash           = "trash"
	OpRestore         = "restore"
	OpPermanentDelete = "permanent_delete"
	OpUploadVersion   = "upload_version"
	OpListVersions    = "list_versions"
	OpRestoreVersion  = "restore_version"
	OpShare           = "share"
	OpSubscribe       = "subscribe"
	OpViewActivity    = "view_activity"
)

// ResourceAuthorizer decides whether an actor may perform an operation on an item.
// Services call it after loading the item and before mutating anything.
type ResourceAuthorizer interface {
	// Authorize returns an AccessDeniedError if the actor's effective level is below
	// the level the policy requires for op
	Authorize(ctx context.Context, actor models.Actor, itemType models.ItemType, itemID, op string) error

	// EffectiveLevel computes the actor's level on an item (ownership, grants on the item
	// or any ancestor folder)
	EffectiveLevel(ctx context.Context, actor models.Actor, itemType models.ItemType, itemID string) (models.AccessLevel, error)
}
