package drive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	driveSvc "drive/internal/domain/services/drive"
)

func TestLifecycleScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// Docs/a.txt exists, a second a.txt arrives from the root
	docs := e.mkdir(t, owner, "Docs", nil)
	first := e.upload(t, owner, "a.txt", "first", docs)
	second := e.upload(t, owner, "a.txt", "second", nil)

	moved, err := e.mover.Move(ctx, &driveSvc.MoveRequest{
		Actor: owner, ItemID: second.ID, ItemType: models.ItemTypeFile, DestinationID: docs.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "a (1).txt", moved.File.Name)

	// Docs cannot go under itself
	_, err = e.mover.Move(ctx, &driveSvc.MoveRequest{
		Actor: owner, ItemID: docs.ID, ItemType: models.ItemTypeFolder, DestinationID: docs.ID,
	})
	assert.ErrorIs(t, err, domain.ErrCycle)

	// a new version of the original
	_, err = e.versions.RecordNewVersion(ctx, first.ID, models.FileContent{
		Name: "a.txt", Size: 6, MimeType: "text/plain", BlobRef: second.BlobRef,
	})
	require.NoError(t, err)
	versions, err := e.versions.ListVersions(ctx, owner, first.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, first.BlobRef, versions[0].BlobRef)

	// trash both files, then empty the trash
	for _, id := range []string{first.ID, second.ID} {
		_, err := e.trash.SoftDelete(ctx, owner, models.ItemTypeFile, id)
		require.NoError(t, err)
	}
	contents, err := e.folders.ListChildren(ctx, owner, &docs.ID)
	require.NoError(t, err)
	assert.Empty(t, contents.Files)

	count, err := e.trash.EmptyTrash(ctx, owner, "")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	for _, id := range []string{first.ID, second.ID} {
		versions, err := e.versions.ListVersions(ctx, owner, id)
		require.NoError(t, err)
		assert.Empty(t, versions)
	}
	assert.False(t, e.blobExists(t, first.BlobRef))
	assert.False(t, e.blobExists(t, second.BlobRef))

	// the folder itself survives
	folder, err := e.folders.GetFolder(ctx, owner, docs.ID)
	require.NoError(t, err)
	assert.False(t, folder.IsTrashed())
}
