package handler

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "drive/internal/domain/models/drive"
	driveSvc "drive/internal/domain/services/drive"
	"drive/internal/handler/sse"
	"drive/internal/middleware"
	"drive/internal/notify"
	"drive/internal/policy"
	"drive/internal/repository/memory"
	"drive/internal/service/activity"
	"drive/internal/service/auth"
	driveService "drive/internal/service/drive"
	"drive/internal/storage/blob"
)

const testUser = "user-u"

type testServer struct {
	handler http.Handler
	hub     *notify.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry, err := policy.NewRegistry()
	require.NoError(t, err)

	repos := memory.NewRepositories()
	hub := notify.NewHub(16, nil, logger)
	authorizer := auth.NewAccessAuthorizer(repos.Folders, repos.Files, repos.Access, registry, logger)

	deps := driveService.Deps{
		Folders:    repos.Folders,
		Files:      repos.Files,
		Versions:   repos.Versions,
		Access:     repos.Access,
		TxManager:  memory.NewTransactionManager(),
		Authorizer: authorizer,
		Blobs:      blob.NewMemoryStore(logger),
		Activity:   activity.NewRecorder(repos.Activity, logger),
		Notifier:   hub,
		Logger:     logger,
	}
	versions := driveService.NewVersionService(deps)
	mover := driveService.NewMoveCoordinator(deps)
	trash := driveService.NewTrashService(deps)

	handlers := Handlers{
		Folders:  NewFolderHandler(driveService.NewFolderService(deps), logger),
		Files:    NewFileHandler(driveService.NewFileService(deps), 1<<20, logger),
		FolderOp: NewItemHandler(models.ItemTypeFolder, mover, trash, nil, logger),
		FileOp:   NewItemHandler(models.ItemTypeFile, mover, trash, versions, logger),
		Versions: NewVersionHandler(versions, 1<<20, logger),
		Access:   NewAccessHandler(driveService.NewAccessService(deps, repos.Activity), logger),
		Events: NewEventsHandler(hub, notify.NewRoomGate(authorizer),
			notify.NewWebSocketTransport(notify.DefaultWebSocketConfig(), logger), sse.DefaultConfig(), logger),
	}

	mux := http.NewServeMux()
	RegisterRoutes(mux, handlers, middleware.AuthMiddleware(nil, testUser, logger), nil)

	return &testServer{
		handler: middleware.Recovery(logger)(middleware.Metrics(nil)(mux)),
		hub:     hub,
	}
}

func (s *testServer) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(middleware.DevUserHeader, user)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) upload(t *testing.T, path, filename, content string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(middleware.DevUserHeader, testUser)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type problem struct {
	Status     int    `json:"status"`
	Reason     string `json:"reason"`
	Detail     string `json:"detail"`
	ExistingID string `json:"existing_id"`
}

func (s *testServer) mkdir(t *testing.T, name string, parentID *string) models.Folder {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/folders", testUser, map[string]any{"name": name, "parent_id": parentID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Folder](t, rec)
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFolderRoutes(t *testing.T) {
	s := newTestServer(t)

	docs := s.mkdir(t, "Docs", nil)
	assert.Equal(t, testUser, docs.OwnerID)
	assert.Nil(t, docs.ParentID)

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/folders", testUser, map[string]any{"name": "Docs"})
		require.Equal(t, http.StatusConflict, rec.Code)
		p := decode[problem](t, rec)
		assert.Equal(t, "duplicate_name", p.Reason)
		assert.Equal(t, docs.ID, p.ExistingID)
	})

	t.Run("invalid body", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/folders", testUser, map[string]any{"name": "x", "bogus": 1})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation", decode[problem](t, rec).Reason)
	})

	t.Run("root children", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/folders/root/children", testUser, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		contents := decode[driveSvc.FolderContents](t, rec)
		require.Len(t, contents.Folders, 1)
		assert.Equal(t, "Docs", contents.Folders[0].Name)
	})

	t.Run("missing folder", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/folders/nope", testUser, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", decode[problem](t, rec).Reason)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/folders/"+docs.ID, "user-x", nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "access_denied", decode[problem](t, rec).Reason)
	})

	t.Run("tags", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, "/api/folders/"+docs.ID+"/tags", testUser, map[string]any{"tags": []string{" work ", "work", "2026"}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"work", "2026"}, decode[models.Folder](t, rec).Tags)
	})

	t.Run("rename", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/api/folders/"+docs.ID, testUser, map[string]any{"name": "Documents"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Documents", decode[driveSvc.ItemResult](t, rec).Folder.Name)
	})
}

func TestMoveRoutes(t *testing.T) {
	s := newTestServer(t)

	a := s.mkdir(t, "A", nil)
	b := s.mkdir(t, "B", &a.ID)

	t.Run("cycle is rejected", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/api/folders/"+a.ID+"/move", testUser, map[string]any{"destinationFolderId": b.ID})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "cycle", decode[problem](t, rec).Reason)
	})

	t.Run("collision auto-renames", func(t *testing.T) {
		require.Equal(t, http.StatusCreated, s.upload(t, "/api/files", "notes.txt", "one", map[string]string{"folderId": a.ID}).Code)
		rec := s.upload(t, "/api/files", "notes.txt", "two", nil)
		require.Equal(t, http.StatusCreated, rec.Code)
		file := decode[models.File](t, rec)

		rec = s.do(t, http.MethodPatch, "/api/files/"+file.ID+"/move", testUser, map[string]any{"destinationFolderId": a.ID})
		require.Equal(t, http.StatusOK, rec.Code)
		result := decode[driveSvc.MoveResult](t, rec)
		assert.True(t, result.Renamed)
		assert.Equal(t, "notes.txt", result.PreviousName)
		assert.Equal(t, "notes (1).txt", result.File.Name)
	})

	t.Run("back to root", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/api/folders/"+b.ID+"/move", testUser, map[string]any{"destinationFolderId": "root"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, decode[driveSvc.MoveResult](t, rec).Folder.ParentID)
	})

	t.Run("star", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/api/folders/"+a.ID+"/star", testUser, map[string]any{"starred": true})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decode[driveSvc.ItemResult](t, rec).Folder.IsStarred)
	})
}

func TestTrashRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.upload(t, "/api/files", "a.txt", "hello", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	file := decode[models.File](t, rec)

	// a live item cannot be purged
	rec = s.do(t, http.MethodDelete, "/api/files/"+file.ID+"/permanent", testUser, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/files/"+file.ID, testUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/files/trash", testUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]models.File](t, rec), 1)

	rec = s.do(t, http.MethodPost, "/api/files/"+file.ID+"/restore", testUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[driveSvc.ItemResult](t, rec).File.DeletedAt)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/files/"+file.ID, testUser, nil).Code)
	rec = s.do(t, http.MethodDelete, "/api/files/"+file.ID+"/permanent", testUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, file.ID, decode[driveSvc.ItemResult](t, rec).File.ID)

	rec = s.do(t, http.MethodGet, "/api/files/"+file.ID, testUser, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// its history went with it
	rec = s.do(t, http.MethodGet, "/api/files/"+file.ID+"/versions", testUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"versions":[]}`, rec.Body.String())
}

func TestEmptyTrashRoute(t *testing.T) {
	s := newTestServer(t)

	for _, name := range []string{"a.txt", "b.txt"} {
		rec := s.upload(t, "/api/files", name, name, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
		file := decode[models.File](t, rec)
		require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/files/"+file.ID, testUser, nil).Code)
	}
	folder := s.mkdir(t, "Keep", nil)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/folders/"+folder.ID, testUser, nil).Code)

	rec := s.do(t, http.MethodPost, "/api/files/empty-trash", testUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[emptyTrashResponse](t, rec).Count)

	// only files were emptied
	rec = s.do(t, http.MethodGet, "/api/folders/trash", testUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Folder](t, rec), 1)

	rec = s.do(t, http.MethodPost, "/api/files/empty-trash", testUser, map[string]any{"ownerId": "user-x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestVersionRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.upload(t, "/api/files", "draft.md", "v1", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	file := decode[models.File](t, rec)

	rec = s.upload(t, "/api/files/"+file.ID+"/version", "ignored.md", "version two", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[models.File](t, rec)
	assert.Equal(t, "draft.md", updated.Name)
	assert.Equal(t, int64(len("version two")), updated.Size)

	rec = s.do(t, http.MethodGet, "/api/files/"+file.ID+"/versions", testUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	versions := decode[versionsResponse](t, rec).Versions
	require.Len(t, versions, 1)
	assert.Equal(t, int64(2), versions[0].Size)

	t.Run("restore-version", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/files/"+file.ID+"/restore-version", testUser, map[string]any{"versionId": versions[0].ID})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(2), decode[models.File](t, rec).Size)
	})

	t.Run("restore alias with versionId", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/files/"+file.ID+"/restore", testUser, map[string]any{"versionId": versions[0].ID})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(2), decode[models.File](t, rec).Size)
	})

	t.Run("missing versionId", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/files/"+file.ID+"/restore-version", testUser, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown version", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/files/"+file.ID+"/restore-version", testUser, map[string]any{"versionId": "nope"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSetPublicRoute(t *testing.T) {
	s := newTestServer(t)
	folder := s.mkdir(t, "Shared", nil)

	rec := s.do(t, http.MethodPut, "/api/folders/"+folder.ID+"/public", testUser, map[string]any{"isPublic": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.Folder](t, rec).IsPublic)

	rec = s.do(t, http.MethodPut, "/api/folders/"+folder.ID+"/public", testUser, map[string]any{"is_public": false})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRequiresFilePart(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "x.txt"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", decode[problem](t, rec).Reason)
}

func TestAccessRoutes(t *testing.T) {
	s := newTestServer(t)
	folder := s.mkdir(t, "Shared", nil)

	rec := s.do(t, http.MethodPost, "/api/items/"+folder.ID+"/shares", testUser, map[string]any{"user_id": "user-v", "level": "viewer"})
	require.Equal(t, http.StatusBadRequest, rec.Code, "type query parameter is required")

	rec = s.do(t, http.MethodPost, "/api/items/"+folder.ID+"/shares?type=folder", testUser, map[string]any{"user_id": "user-v", "level": "viewer"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/folders/"+folder.ID, "user-v", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/items/"+folder.ID+"/activity?type=folder&limit=10", testUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[[]models.Activity](t, rec))

	rec = s.do(t, http.MethodGet, "/api/items/"+folder.ID+"/activity?type=folder&limit=zero", testUser, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/items/"+folder.ID+"/shares/user-v?type=folder", testUser, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/folders/"+folder.ID, "user-v", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoomAuthorization(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/rooms/root:user-x/events", testUser, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/rooms/bogus/events", testUser, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventStream(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.handler)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/rooms/root:"+testUser+"/events", nil)
	require.NoError(t, err)
	req.Header.Set(middleware.DevUserHeader, testUser)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// headers arrive after the subscription is registered
	s.mkdir(t, "Live", nil)

	lines := make(chan string, 64)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream closed early")
			if line == "event: "+models.EventItemCreated {
				data := <-lines
				assert.True(t, strings.HasPrefix(data, "data: "))
				assert.Contains(t, data, `"Live"`)
				return
			}
		case <-deadline:
			t.Fatal("no item:created event received")
		}
	}
}

func TestUnauthenticated(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	RegisterRoutes(mux, Handlers{
		Folders: NewFolderHandler(nil, logger),
	}, middleware.AuthMiddleware(nil, "", logger), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/folders", strings.NewReader(`{"name":"x"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
