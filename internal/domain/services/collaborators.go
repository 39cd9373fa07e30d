package services

import (
	"context"
	"io"

	models "drive/internal/domain/models/drive"
)

// BlobStore is the opaque byte storage backend. Refs are backend-specific keys.
type BlobStore interface {
	// Put writes size bytes from r under path and returns the ref to persist
	Put(ctx context.Context, path string, r io.Reader, size int64, contentType string) (string, error)

	Delete(ctx context.Context, ref string) error

	Exists(ctx context.Context, ref string) (bool, error)
}

// ActivityLogger records audit entries. Fire-and-forget: failures never reach the caller.
type ActivityLogger interface {
	Record(ctx context.Context, entry models.Activity)
}

// Notifier fans out structural-change events to room subscribers.
// No acknowledgment, no retry.
type Notifier interface {
	Publish(room, event string, payload any)
}
