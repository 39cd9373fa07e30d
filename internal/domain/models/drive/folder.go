package drive

import (
	"time"
)

type Folder struct {
	ID        string         `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	ParentID  *string        `json:"parent_id" db:"parent_id"` // NULL = owner's root
	OwnerID   string         `json:"owner_id" db:"owner_id"`
	IsStarred bool           `json:"is_starred" db:"is_starred"`
	IsPublic  bool           `json:"is_public" db:"is_public"`
	Tags      []string       `json:"tags" db:"tags"`
	Metadata  map[string]any `json:"metadata,omitempty" db:"metadata"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time     `json:"deleted_at,omitempty" db:"deleted_at"`
}

// IsTrashed reports whether the folder is in the trash
func (f *Folder) IsTrashed() bool {
	return f.DeletedAt != nil
}
