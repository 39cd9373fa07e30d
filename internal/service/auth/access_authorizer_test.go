package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	"drive/internal/domain/services"
	"drive/internal/policy"
	"drive/internal/repository/memory"
)

type fixture struct {
	repos *memory.Repositories
	authz *AccessAuthorizer
	root  *models.Folder
	child *models.Folder
	file  *models.File
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	registry, err := policy.NewRegistry()
	require.NoError(t, err)

	repos := memory.NewRepositories()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	root := &models.Folder{Name: "shared", OwnerID: "owner"}
	require.NoError(t, repos.Folders.Create(ctx, root))
	child := &models.Folder{Name: "nested", OwnerID: "owner", ParentID: &root.ID}
	require.NoError(t, repos.Folders.Create(ctx, child))
	file := &models.File{Name: "a.txt", OwnerID: "owner", FolderID: &child.ID, BlobRef: "ref"}
	require.NoError(t, repos.Files.Create(ctx, file))

	return &fixture{
		repos: repos,
		authz: NewAccessAuthorizer(repos.Folders, repos.Files, repos.Access, registry, logger),
		root:  root,
		child: child,
		file:  file,
	}
}

func TestAccessAuthorizer_Owner(t *testing.T) {
	f := newFixture(t)
	owner := models.Actor{ID: "owner"}

	err := f.authz.Authorize(context.Background(), owner, models.ItemTypeFile, f.file.ID, services.OpPermanentDelete)
	assert.NoError(t, err)
}

func TestAccessAuthorizer_AncestorGrant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	guest := models.Actor{ID: "guest"}

	err := f.authz.Authorize(ctx, guest, models.ItemTypeFile, f.file.ID, services.OpRead)
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, "viewer", denied.Required)

	require.NoError(t, f.repos.Access.Grant(ctx, &models.AccessControl{
		UserID: "guest", ItemType: models.ItemTypeFolder, ItemID: f.root.ID, Level: models.AccessEditor,
	}))

	level, err := f.authz.EffectiveLevel(ctx, guest, models.ItemTypeFile, f.file.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AccessEditor, level)

	assert.NoError(t, f.authz.Authorize(ctx, guest, models.ItemTypeFile, f.file.ID, services.OpRename))
	assert.ErrorIs(t, f.authz.Authorize(ctx, guest, models.ItemTypeFile, f.file.ID, services.OpPermanentDelete), domain.ErrForbidden)
}

func TestAccessAuthorizer_PublicFolder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	guest := models.Actor{ID: "guest"}

	f.root.IsPublic = true
	require.NoError(t, f.repos.Folders.Update(ctx, f.root))

	assert.NoError(t, f.authz.Authorize(ctx, guest, models.ItemTypeFile, f.file.ID, services.OpRead))
	assert.ErrorIs(t, f.authz.Authorize(ctx, guest, models.ItemTypeFile, f.file.ID, services.OpTrash), domain.ErrForbidden)
}

func TestAccessAuthorizer_AdminBypass(t *testing.T) {
	f := newFixture(t)
	admin := models.Actor{ID: "ops", Role: models.RoleAdmin}

	assert.NoError(t, f.authz.Authorize(context.Background(), admin, models.ItemTypeFolder, f.child.ID, services.OpShare))
}

func TestAccessAuthorizer_MissingItem(t *testing.T) {
	f := newFixture(t)

	err := f.authz.Authorize(context.Background(), models.Actor{ID: "owner"}, models.ItemTypeFolder, "missing", services.OpRead)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccessAuthorizer_OrphanStopsWalk(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	removed, err := f.repos.Folders.Delete(ctx, f.root.ID)
	require.NoError(t, err)
	require.True(t, removed)

	level, err := f.authz.EffectiveLevel(ctx, models.Actor{ID: "guest"}, models.ItemTypeFile, f.file.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AccessNone, level)
}
