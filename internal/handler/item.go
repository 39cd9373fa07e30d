package handler

import (
	"log/slog"
	"net/http"

	models "drive/internal/domain/models/drive"
	driveSvc "drive/internal/domain/services/drive"
	"drive/internal/httputil"
)

// ItemHandler serves the operations folders and files share: rename, move,
// star and the trash lifecycle. One instance is registered per item type.
type ItemHandler struct {
	itemType models.ItemType
	mover    driveSvc.MoveCoordinator
	trash    driveSvc.TrashService
	versions driveSvc.VersionService // files only, for the restore alias
	logger   *slog.Logger
}

// NewItemHandler creates an item handler for itemType
func NewItemHandler(itemType models.ItemType, mover driveSvc.MoveCoordinator, trash driveSvc.TrashService, versions driveSvc.VersionService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		itemType: itemType,
		mover:    mover,
		trash:    trash,
		versions: versions,
		logger:   logger,
	}
}

// Rename renames an item in place
// PATCH /api/{folders|files}/{id}
func (h *ItemHandler) Rename(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req driveSvc.RenameRequest
	if err := parseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	req.Actor = actor
	req.ItemID = r.PathValue("id")
	req.ItemType = h.itemType

	result, err := h.mover.Rename(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}

// Move relocates an item, auto-renaming on collision
// PATCH /api/{folders|files}/{id}/move
func (h *ItemHandler) Move(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req driveSvc.MoveRequest
	if err := parseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	req.Actor = actor
	req.ItemID = r.PathValue("id")
	req.ItemType = h.itemType

	result, err := h.mover.Move(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}

type starRequest struct {
	Starred bool `json:"starred"`
}

// Star sets or clears the starred flag
// PATCH /api/{folders|files}/{id}/star
func (h *ItemHandler) Star(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req starRequest
	if err := parseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	result, err := h.mover.SetStarred(r.Context(), actor, h.itemType, r.PathValue("id"), req.Starred)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}

// SoftDelete moves an item to the trash
// DELETE /api/{folders|files}/{id}
func (h *ItemHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	result, err := h.trash.SoftDelete(r.Context(), actor, h.itemType, r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}

type restoreRequest struct {
	VersionID string `json:"versionId"`
}

// Restore brings an item back from the trash. For files, a body carrying a
// versionId restores that version instead.
// POST /api/{folders|files}/{id}/restore
func (h *ItemHandler) Restore(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req restoreRequest
	if err := optionalJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	id := r.PathValue("id")

	if req.VersionID != "" && h.itemType == models.ItemTypeFile && h.versions != nil {
		file, err := h.versions.RestoreVersion(r.Context(), actor, id, req.VersionID)
		if err != nil {
			handleError(w, r, h.logger, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, file)
		return
	}

	result, err := h.trash.Restore(r.Context(), actor, h.itemType, id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}

// PermanentDelete removes a trashed item for good
// DELETE /api/{folders|files}/{id}/permanent
func (h *ItemHandler) PermanentDelete(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	result, err := h.trash.PermanentDelete(r.Context(), actor, h.itemType, r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}

type emptyTrashRequest struct {
	OwnerID string `json:"ownerId"`
}

type emptyTrashResponse struct {
	Count int `json:"count"`
}

// EmptyTrash permanently deletes every trashed item of this type
// POST /api/{folders|files}/empty-trash
func (h *ItemHandler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req emptyTrashRequest
	if err := optionalJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	count, err := h.trash.EmptyTrash(r.Context(), actor, req.OwnerID, h.itemType)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, emptyTrashResponse{Count: count})
}

// ListTrash lists the actor's trashed items of this type
// GET /api/{folders|files}/trash
func (h *ItemHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	contents, err := h.trash.ListTrash(r.Context(), actor)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if h.itemType == models.ItemTypeFolder {
		httputil.RespondJSON(w, http.StatusOK, contents.Folders)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, contents.Files)
}
