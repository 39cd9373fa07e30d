package drive

import "fmt"

// ItemType distinguishes the two kinds of tree nodes
type ItemType string

const (
	ItemTypeFolder ItemType = "folder"
	ItemTypeFile   ItemType = "file"
)

// ParseItemType validates a raw item type string
func ParseItemType(s string) (ItemType, error) {
	switch ItemType(s) {
	case ItemTypeFolder, ItemTypeFile:
		return ItemType(s), nil
	default:
		return "", fmt.Errorf("unknown item type %q", s)
	}
}

// RootDestination is the sentinel destination id meaning "no parent"
const RootDestination = "root"

// NameScope identifies the sibling set a name must be unique within.
// ParentID nil means the owner's root.
type NameScope struct {
	OwnerID   string
	ParentID  *string
	ItemType  ItemType
	ExcludeID string
}
