package drive

import (
	"fmt"
	"time"
)

// AccessLevel is an ordered permission level on an item
type AccessLevel string

const (
	AccessNone   AccessLevel = ""
	AccessViewer AccessLevel = "viewer"
	AccessEditor AccessLevel = "editor"
	AccessOwner  AccessLevel = "owner"
)

// Rank orders access levels; higher grants more
func (l AccessLevel) Rank() int {
	switch l {
	case AccessViewer:
		return 1
	case AccessEditor:
		return 2
	case AccessOwner:
		return 3
	default:
		return 0
	}
}

// Satisfies reports whether l is at least required
func (l AccessLevel) Satisfies(required AccessLevel) bool {
	return l.Rank() >= required.Rank()
}

// ParseAccessLevel validates a raw level string
func ParseAccessLevel(s string) (AccessLevel, error) {
	switch AccessLevel(s) {
	case AccessViewer, AccessEditor, AccessOwner:
		return AccessLevel(s), nil
	default:
		return AccessNone, fmt.Errorf("unknown access level %q", s)
	}
}

// AccessControl is a grant of a level on a folder or file to a user
type AccessControl struct {
	ID        string      `json:"id" db:"id"`
	UserID    string      `json:"user_id" db:"user_id"`
	ItemType  ItemType    `json:"item_type" db:"item_type"`
	ItemID    string      `json:"item_id" db:"item_id"`
	Level     AccessLevel `json:"level" db:"level"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// RoleAdmin bypasses per-item access checks
const RoleAdmin = "admin"

// Actor is the authenticated caller of an operation, supplied by the identity layer
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role,omitempty"`
}

// IsAdmin reports whether the actor bypasses access checks
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
