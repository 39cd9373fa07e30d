package handler

import (
	"log/slog"
	"net/http"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	driveSvc "drive/internal/domain/services/drive"
	"drive/internal/httputil"
)

// VersionHandler handles file version history
type VersionHandler struct {
	versions       driveSvc.VersionService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewVersionHandler creates a new version handler
func NewVersionHandler(versions driveSvc.VersionService, maxUploadBytes int64, logger *slog.Logger) *VersionHandler {
	return &VersionHandler{
		versions:       versions,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// UploadVersion replaces a file's content, snapshotting the previous state
// POST /api/files/{id}/version (multipart: file, name)
func (h *VersionHandler) UploadVersion(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	up, err := readUpload(w, r, h.maxUploadBytes)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	defer up.file.Close()
	defer r.MultipartForm.RemoveAll()

	// only an explicit name field renames the file
	file, err := h.versions.UploadNewVersion(r.Context(), &driveSvc.UploadVersionRequest{
		Actor:    actor,
		FileID:   r.PathValue("id"),
		Name:     r.FormValue("name"),
		MimeType: up.mimeType,
		Size:     up.size,
		Body:     up.file,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, file)
}

type versionsResponse struct {
	Versions []models.FileVersion `json:"versions"`
}

// ListVersions lists a file's snapshots, newest first
// GET /api/files/{id}/versions
func (h *VersionHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	versions, err := h.versions.ListVersions(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, versionsResponse{Versions: versions})
}

// RestoreVersion copies a snapshot onto the file
// POST /api/files/{id}/restore-version
func (h *VersionHandler) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req restoreRequest
	if err := parseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	if req.VersionID == "" {
		handleError(w, r, h.logger, domain.NewValidationError("versionId is required"))
		return
	}

	file, err := h.versions.RestoreVersion(r.Context(), actor, r.PathValue("id"), req.VersionID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, file)
}
