package drive

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	models "drive/internal/domain/models/drive"
	"drive/internal/domain/services"
	driveSvc "drive/internal/domain/services/drive"
	"drive/internal/policy"
	"drive/internal/repository/memory"
	"drive/internal/service/activity"
	"drive/internal/service/auth"
	"drive/internal/storage/blob"
)

var owner = models.Actor{ID: "user-u"}

type published struct {
	room  string
	event string
	data  models.ChangeEvent
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []published
}

func (n *recordingNotifier) Publish(room, event string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	data, _ := payload.(models.ChangeEvent)
	n.events = append(n.events, published{room: room, event: event, data: data})
}

func (n *recordingNotifier) rooms(event string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, e := range n.events {
		if e.event == event {
			out = append(out, e.room)
		}
	}
	return out
}

// flakyBlobs wraps a blob store and fails selected operations
type flakyBlobs struct {
	services.BlobStore
	failPut    bool
	failDelete bool

	mu      sync.Mutex
	deleted []string
}

func (b *flakyBlobs) Put(ctx context.Context, path string, r io.Reader, size int64, contentType string) (string, error) {
	if b.failPut {
		return "", errors.New("disk full")
	}
	return b.BlobStore.Put(ctx, path, r, size, contentType)
}

func (b *flakyBlobs) Delete(ctx context.Context, ref string) error {
	b.mu.Lock()
	b.deleted = append(b.deleted, ref)
	b.mu.Unlock()
	if b.failDelete {
		return errors.New("bucket unavailable")
	}
	return b.BlobStore.Delete(ctx, ref)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type env struct {
	repos    *memory.Repositories
	blobs    *flakyBlobs
	notifier *recordingNotifier
	clock    *clock

	folders  driveSvc.FolderService
	files    driveSvc.FileService
	mover    driveSvc.MoveCoordinator
	trash    driveSvc.TrashService
	versions driveSvc.VersionService
	access   driveSvc.AccessService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry, err := policy.NewRegistry()
	require.NoError(t, err)

	repos := memory.NewRepositories()
	clk := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	repos.Store.SetClock(clk.Now)

	blobs := &flakyBlobs{BlobStore: blob.NewMemoryStore(logger)}
	notifier := &recordingNotifier{}

	deps := Deps{
		Folders:    repos.Folders,
		Files:      repos.Files,
		Versions:   repos.Versions,
		Access:     repos.Access,
		TxManager:  memory.NewTransactionManager(),
		Authorizer: auth.NewAccessAuthorizer(repos.Folders, repos.Files, repos.Access, registry, logger),
		Blobs:      blobs,
		Activity:   activity.NewRecorder(repos.Activity, logger),
		Notifier:   notifier,
		Logger:     logger,
		Retention:  30 * 24 * time.Hour,
		Now:        clk.Now,
	}

	return &env{
		repos:    repos,
		blobs:    blobs,
		notifier: notifier,
		clock:    clk,
		folders:  NewFolderService(deps),
		files:    NewFileService(deps),
		mover:    NewMoveCoordinator(deps),
		trash:    NewTrashService(deps),
		versions: NewVersionService(deps),
		access:   NewAccessService(deps, repos.Activity),
	}
}

func (e *env) mkdir(t *testing.T, actor models.Actor, name string, parent *models.Folder) *models.Folder {
	t.Helper()
	req := &driveSvc.CreateFolderRequest{Actor: actor, Name: name}
	if parent != nil {
		req.ParentID = &parent.ID
	}
	folder, err := e.folders.CreateFolder(context.Background(), req)
	require.NoError(t, err)
	return folder
}

func (e *env) upload(t *testing.T, actor models.Actor, name, content string, folder *models.Folder) *models.File {
	t.Helper()
	req := &driveSvc.UploadFileRequest{
		Actor:    actor,
		Name:     name,
		MimeType: "text/plain",
		Size:     int64(len(content)),
		Body:     strings.NewReader(content),
	}
	if folder != nil {
		req.FolderID = &folder.ID
	}
	file, err := e.files.UploadFile(context.Background(), req)
	require.NoError(t, err)
	return file
}

func (e *env) blobExists(t *testing.T, ref string) bool {
	t.Helper()
	ok, err := e.blobs.Exists(context.Background(), ref)
	require.NoError(t, err)
	return ok
}
