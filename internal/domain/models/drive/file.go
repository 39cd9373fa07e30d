package drive

import (
	"time"
)

// File always holds the current content metadata; prior states live in FileVersion.
type File struct {
	ID        string     `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	FolderID  *string    `json:"folder_id" db:"folder_id"` // NULL = owner's root
	OwnerID   string     `json:"owner_id" db:"owner_id"`
	Size      int64      `json:"size" db:"size"`
	MimeType  string     `json:"mime_type" db:"mime_type"`
	BlobRef   string     `json:"-" db:"blob_ref"`
	IsStarred bool       `json:"is_starred" db:"is_starred"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// IsTrashed reports whether the file is in the trash
func (f *File) IsTrashed() bool {
	return f.DeletedAt != nil
}

// Content returns the file's current content metadata
func (f *File) Content() FileContent {
	return FileContent{
		Name:     f.Name,
		Size:     f.Size,
		MimeType: f.MimeType,
		BlobRef:  f.BlobRef,
	}
}

// ApplyContent overwrites the content fields of the file
func (f *File) ApplyContent(c FileContent) {
	f.Name = c.Name
	f.Size = c.Size
	f.MimeType = c.MimeType
	f.BlobRef = c.BlobRef
}

// FileContent is the content-describing subset of a File
type FileContent struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
	BlobRef  string `json:"-"`
}
