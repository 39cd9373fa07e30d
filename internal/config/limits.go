package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxFolderNameLength = 255

	// MaxFileNameLength is the maximum length for file names.
	MaxFileNameLength = 255

	// MaxTagLength bounds a single folder tag.
	MaxTagLength = 64

	// MaxTags bounds the number of tags on one folder.
	MaxTags = 32

	// MaxTreeDepth bounds every upward walk of the folder tree (cycle guard,
	// access inheritance). A longer chain means the parent pointers are corrupt.
	MaxTreeDepth = 10000

	// DefaultTrashRetentionDays is how long trashed items survive the scheduled purge.
	DefaultTrashRetentionDays = 30

	// DefaultMaxUploadBytes caps a single multipart upload (100MB).
	DefaultMaxUploadBytes = 100 << 20

	// DefaultActivityLimit is the page size for activity listings.
	DefaultActivityLimit = 50
)
