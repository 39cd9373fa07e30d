package drive

import "time"

// Change event names published to rooms
const (
	EventItemCreated     = "item:created"
	EventItemUpdated     = "item:updated"
	EventItemRenamed     = "item:renamed"
	EventItemMoved       = "item:moved"
	EventItemTrashed     = "item:trashed"
	EventItemRestored    = "item:restored"
	EventItemDeleted     = "item:deleted"
	EventVersionCreated  = "file:version_created"
	EventVersionRestored = "file:version_restored"
	EventTrashEmptied    = "trash:emptied"
)

// ChangeEvent is the payload of every structural-change event
type ChangeEvent struct {
	ItemType         ItemType  `json:"item_type"`
	ItemID           string    `json:"item_id"`
	Name             string    `json:"name,omitempty"`
	ParentID         *string   `json:"parent_id"`
	PreviousParentID *string   `json:"previous_parent_id,omitempty"`
	PreviousName     string    `json:"previous_name,omitempty"`
	ActorID          string    `json:"actor_id"`
	Count            int       `json:"count,omitempty"`
	At               time.Time `json:"at"`
}

// ItemRoom is the room of a single folder or file
func ItemRoom(itemType ItemType, id string) string {
	return string(itemType) + ":" + id
}

// ScopeRoom is the room observing the children of parentID, or the owner's
// root when parentID is nil
func ScopeRoom(ownerID string, parentID *string) string {
	if parentID == nil {
		return "root:" + ownerID
	}
	return ItemRoom(ItemTypeFolder, *parentID)
}
