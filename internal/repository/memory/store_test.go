package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
)

func ptr(s string) *string { return &s }

func TestFolderRepository_SiblingsAndTrash(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	parent := &models.Folder{Name: "docs", OwnerID: "u1"}
	require.NoError(t, repos.Folders.Create(ctx, parent))
	child := &models.Folder{Name: "a", OwnerID: "u1", ParentID: ptr(parent.ID)}
	require.NoError(t, repos.Folders.Create(ctx, child))

	id, err := repos.Folders.FindSibling(ctx, models.NameScope{OwnerID: "u1", ParentID: ptr(parent.ID)}, "a")
	require.NoError(t, err)
	assert.Equal(t, child.ID, id)

	id, err = repos.Folders.FindSibling(ctx, models.NameScope{OwnerID: "u1", ParentID: ptr(parent.ID), ExcludeID: child.ID}, "a")
	require.NoError(t, err)
	assert.Empty(t, id)

	// root scope is per owner
	id, err = repos.Folders.FindSibling(ctx, models.NameScope{OwnerID: "u2"}, "docs")
	require.NoError(t, err)
	assert.Empty(t, id)

	trashedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repos.Folders.SetDeletedAt(ctx, child.ID, &trashedAt))

	id, err = repos.Folders.FindSibling(ctx, models.NameScope{OwnerID: "u1", ParentID: ptr(parent.ID)}, "a")
	require.NoError(t, err)
	assert.Empty(t, id, "trashed folders do not occupy names")

	children, err := repos.Folders.ListChildren(ctx, "u1", ptr(parent.ID))
	require.NoError(t, err)
	assert.Empty(t, children)

	expired, err := repos.Folders.ListTrashedBefore(ctx, trashedAt)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, child.ID, expired[0].ID)

	expired, err = repos.Folders.ListTrashedBefore(ctx, trashedAt.Add(-time.Second))
	require.NoError(t, err)
	assert.Empty(t, expired)
}

func TestFolderRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	f := &models.Folder{Name: "x", OwnerID: "u1", Tags: []string{"a"}}
	require.NoError(t, repos.Folders.Create(ctx, f))

	got, err := repos.Folders.GetByID(ctx, f.ID)
	require.NoError(t, err)
	got.Name = "mutated"
	got.Tags[0] = "b"

	again, err := repos.Folders.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", again.Name)
	assert.Equal(t, []string{"a"}, again.Tags)
}

func TestFolderRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	_, err := repos.Folders.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	removed, err := repos.Folders.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFileVersionRepository_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	file := &models.File{Name: "a.txt", OwnerID: "u1", BlobRef: "r0"}
	require.NoError(t, repos.Files.Create(ctx, file))

	for _, ref := range []string{"r1", "r2", "r3"} {
		require.NoError(t, repos.Versions.Create(ctx, &models.FileVersion{FileID: file.ID, Name: "a.txt", BlobRef: ref}))
	}

	versions, err := repos.Versions.ListByFile(ctx, file.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, "r3", versions[0].BlobRef)
	assert.Equal(t, "r1", versions[2].BlobRef)

	removed, err := repos.Versions.DeleteByFile(ctx, file.ID)
	require.NoError(t, err)
	assert.Len(t, removed, 3)

	versions, err = repos.Versions.ListByFile(ctx, file.ID)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestFileVersionRepository_UnknownFile(t *testing.T) {
	repos := NewRepositories()
	err := repos.Versions.Create(context.Background(), &models.FileVersion{FileID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccessRepository_GrantUpserts(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	grant := &models.AccessControl{UserID: "u2", ItemType: models.ItemTypeFolder, ItemID: "f1", Level: models.AccessViewer}
	require.NoError(t, repos.Access.Grant(ctx, grant))
	require.NoError(t, repos.Access.Grant(ctx, &models.AccessControl{UserID: "u2", ItemType: models.ItemTypeFolder, ItemID: "f1", Level: models.AccessEditor}))

	level, err := repos.Access.GetLevel(ctx, "u2", models.ItemTypeFolder, "f1")
	require.NoError(t, err)
	assert.Equal(t, models.AccessEditor, level)

	require.NoError(t, repos.Access.DeleteByItem(ctx, models.ItemTypeFolder, "f1"))
	level, err = repos.Access.GetLevel(ctx, "u2", models.ItemTypeFolder, "f1")
	require.NoError(t, err)
	assert.Equal(t, models.AccessNone, level)
}

func TestActivityRepository_Limit(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	for i := 0; i < 5; i++ {
		require.NoError(t, repos.Activity.Create(ctx, &models.Activity{ItemID: "i1", Action: models.ActionRename}))
	}
	require.NoError(t, repos.Activity.Create(ctx, &models.Activity{ItemID: "i2", Action: models.ActionMove}))

	entries, err := repos.Activity.ListByItem(ctx, "i1", 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
