package drive

import (
	"context"
	"time"

	models "drive/internal/domain/models/drive"
)

// TrashService drives the Live -> Trashed -> Purged lifecycle
type TrashService interface {
	SoftDelete(ctx context.Context, actor models.Actor, itemType models.ItemType, id string) (*ItemResult, error)

	Restore(ctx context.Context, actor models.Actor, itemType models.ItemType, id string) (*ItemResult, error)

	// PermanentDelete removes a trashed item; blob cleanup is best-effort
	PermanentDelete(ctx context.Context, actor models.Actor, itemType models.ItemType, id string) (*ItemResult, error)

	// EmptyTrash permanently deletes every trashed item of ownerID, restricted to
	// itemTypes when given, regardless of trash age
	EmptyTrash(ctx context.Context, actor models.Actor, ownerID string, itemTypes ...models.ItemType) (int, error)

	ListTrash(ctx context.Context, actor models.Actor) (*TrashContents, error)

	// Purge deletes every item trashed at or before now minus the retention period
	Purge(ctx context.Context, now time.Time) (*PurgeReport, error)
}

// TrashContents lists the actor's trashed items
type TrashContents struct {
	Folders []models.Folder `json:"folders"`
	Files   []models.File   `json:"files"`
}

// PurgeReport summarizes one purge sweep
type PurgeReport struct {
	Cutoff        time.Time `json:"cutoff"`
	FoldersPurged int       `json:"folders_purged"`
	FilesPurged   int       `json:"files_purged"`
	BlobFailures  int       `json:"blob_failures"`
}
