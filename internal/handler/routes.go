package handler

import (
	"net/http"

	"drive/internal/httputil"
)

// Handlers groups every handler the router mounts
type Handlers struct {
	Folders  *FolderHandler
	Files    *FileHandler
	FolderOp *ItemHandler // item operations bound to folders
	FileOp   *ItemHandler // item operations bound to files
	Versions *VersionHandler
	Access   *AccessHandler
	Events   *EventsHandler
}

// RegisterRoutes mounts the API on mux. authed wraps each /api route; /health
// and metricsHandler (when non-nil) stay public.
func RegisterRoutes(mux *http.ServeMux, h Handlers, authed func(http.Handler) http.Handler, metricsHandler http.Handler) {
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, authed(fn))
	}

	mux.HandleFunc("GET /health", HealthCheck)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	// Folder routes; literal segments win over {id}
	handle("POST /api/folders", h.Folders.CreateFolder)
	handle("GET /api/folders/trash", h.FolderOp.ListTrash)
	handle("POST /api/folders/empty-trash", h.FolderOp.EmptyTrash)
	handle("GET /api/folders/{id}", h.Folders.GetFolder)
	handle("GET /api/folders/{id}/children", h.Folders.ListChildren)
	handle("PATCH /api/folders/{id}", h.FolderOp.Rename)
	handle("PATCH /api/folders/{id}/move", h.FolderOp.Move)
	handle("PATCH /api/folders/{id}/star", h.FolderOp.Star)
	handle("PUT /api/folders/{id}/tags", h.Folders.SetTags)
	handle("PUT /api/folders/{id}/public", h.Folders.SetPublic)
	handle("DELETE /api/folders/{id}", h.FolderOp.SoftDelete)
	handle("POST /api/folders/{id}/restore", h.FolderOp.Restore)
	handle("DELETE /api/folders/{id}/permanent", h.FolderOp.PermanentDelete)

	// File routes
	handle("POST /api/files", h.Files.UploadFile)
	handle("GET /api/files/trash", h.FileOp.ListTrash)
	handle("POST /api/files/empty-trash", h.FileOp.EmptyTrash)
	handle("GET /api/files/{id}", h.Files.GetFile)
	handle("PATCH /api/files/{id}", h.FileOp.Rename)
	handle("PATCH /api/files/{id}/move", h.FileOp.Move)
	handle("PATCH /api/files/{id}/star", h.FileOp.Star)
	handle("DELETE /api/files/{id}", h.FileOp.SoftDelete)
	handle("POST /api/files/{id}/restore", h.FileOp.Restore) // also accepts {versionId}
	handle("DELETE /api/files/{id}/permanent", h.FileOp.PermanentDelete)

	// Version routes
	handle("POST /api/files/{id}/version", h.Versions.UploadVersion)
	handle("GET /api/files/{id}/versions", h.Versions.ListVersions)
	handle("POST /api/files/{id}/restore-version", h.Versions.RestoreVersion)

	// Sharing and activity; ?type=folder|file
	handle("POST /api/items/{id}/shares", h.Access.Share)
	handle("DELETE /api/items/{id}/shares/{userId}", h.Access.Unshare)
	handle("GET /api/items/{id}/activity", h.Access.ListActivity)

	// Change notifications
	if h.Events != nil {
		handle("GET /api/rooms/{room}/ws", h.Events.WebSocket)
		handle("GET /api/rooms/{room}/events", h.Events.Stream)
	}
}

// HealthCheck reports liveness
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
