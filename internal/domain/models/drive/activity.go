package drive

import "time"

// Activity actions
const (
	ActionCreate          = "create"
	ActionUpload          = "upload"
	ActionRename          = "rename"
	ActionMove            = "move"
	ActionStar            = "star"
	ActionTag             = "tag"
	ActionTrash           = "trash"
	ActionRestore         = "restore"
	ActionPermanentDelete = "permanent_delete"
	ActionEmptyTrash      = "empty_trash"
	ActionPurge           = "purge"
	ActionNewVersion      = "new_version"
	ActionRestoreVersion  = "restore_version"
)

// Activity is an audit entry describing a mutation
type Activity struct {
	ID        string    `json:"id" db:"id"`
	ActorID   string    `json:"actor_id" db:"actor_id"`
	ItemID    string    `json:"item_id" db:"item_id"`
	ItemType  ItemType  `json:"item_type" db:"item_type"`
	Action    string    `json:"action" db:"action"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
