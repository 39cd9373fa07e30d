package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"drive/internal/config"
	"drive/internal/domain"
	driveSvc "drive/internal/domain/services/drive"
	"drive/internal/httputil"
)

// AccessHandler handles sharing and the activity trail
type AccessHandler struct {
	access driveSvc.AccessService
	logger *slog.Logger
}

// NewAccessHandler creates a new access handler
func NewAccessHandler(access driveSvc.AccessService, logger *slog.Logger) *AccessHandler {
	return &AccessHandler{access: access, logger: logger}
}

// Share grants another user a level on an item
// POST /api/items/{id}/shares?type=folder|file
func (h *AccessHandler) Share(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	itemType, err := itemTypeParam(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req driveSvc.ShareRequest
	if err := parseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	req.Actor = actor
	req.ItemType = itemType
	req.ItemID = r.PathValue("id")

	grant, err := h.access.Share(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, grant)
}

// Unshare revokes a user's grant
// DELETE /api/items/{id}/shares/{userId}?type=folder|file
func (h *AccessHandler) Unshare(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	itemType, err := itemTypeParam(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if err := h.access.Unshare(r.Context(), actor, itemType, r.PathValue("id"), r.PathValue("userId")); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListActivity returns the newest audit entries for an item
// GET /api/items/{id}/activity?type=folder|file&limit=N
func (h *AccessHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	itemType, err := itemTypeParam(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	limit := config.DefaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			handleError(w, r, h.logger, domain.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	entries, err := h.access.ListActivity(r.Context(), actor, itemType, r.PathValue("id"), limit)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, entries)
}
