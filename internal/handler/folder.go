package handler

import (
	"log/slog"
	"net/http"

	driveSvc "drive/internal/domain/services/drive"
	"drive/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService driveSvc.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService driveSvc.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// CreateFolder creates a new folder
// POST /api/folders
// Returns 201 if created, 409 with existing_id if a live sibling has the name
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req driveSvc.CreateFolderRequest
	if err := parseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	req.Actor = actor

	folder, err := h.folderService.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// GetFolder retrieves a folder
// GET /api/folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	folder, err := h.folderService.GetFolder(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, folder)
}

// ListChildren lists the live contents of a folder; {id} may be "root"
// GET /api/folders/{id}/children
func (h *FolderHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	contents, err := h.folderService.ListChildren(r.Context(), actor, folderRef(r.PathValue("id")))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, contents)
}

type setTagsRequest struct {
	Tags []string `json:"tags"`
}

// SetTags replaces a folder's tags
// PUT /api/folders/{id}/tags
func (h *FolderHandler) SetTags(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req setTagsRequest
	if err := parseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	folder, err := h.folderService.SetTags(r.Context(), actor, r.PathValue("id"), req.Tags)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, folder)
}

type setPublicRequest struct {
	IsPublic bool `json:"isPublic"`
}

// SetPublic toggles public visibility
// PUT /api/folders/{id}/public
func (h *FolderHandler) SetPublic(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req setPublicRequest
	if err := parseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	folder, err := h.folderService.SetPublic(r.Context(), actor, r.PathValue("id"), req.IsPublic)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, folder)
}
