package drive

import "time"

// FileVersion is an immutable snapshot of a file's state before an overwrite
type FileVersion struct {
	ID        string    `json:"id" db:"id"`
	FileID    string    `json:"file_id" db:"file_id"`
	Name      string    `json:"name" db:"name"`
	Size      int64     `json:"size" db:"size"`
	MimeType  string    `json:"mime_type" db:"mime_type"`
	BlobRef   string    `json:"-" db:"blob_ref"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Content returns the snapshotted content metadata
func (v *FileVersion) Content() FileContent {
	return FileContent{
		Name:     v.Name,
		Size:     v.Size,
		MimeType: v.MimeType,
		BlobRef:  v.BlobRef,
	}
}
