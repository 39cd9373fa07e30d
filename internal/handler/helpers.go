package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
	"drive/internal/httputil"
)

var errNoActor = fmt.Errorf("actor missing from request context: %w", domain.ErrUnauthorized)

// actorFrom returns the actor set by the auth middleware
func actorFrom(r *http.Request) (models.Actor, error) {
	actor, ok := httputil.ActorFromContext(r.Context())
	if !ok {
		return models.Actor{}, errNoActor
	}
	return actor, nil
}

// folderRef turns a {id} path value into a parent reference; "root" means none
func folderRef(id string) *string {
	if id == "" || id == models.RootDestination {
		return nil
	}
	return &id
}

// parseJSON decodes a JSON body, reporting malformed input as a validation error
func parseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return maxBytes
		}
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}

// optionalJSON is parseJSON for endpoints whose body may be empty
func optionalJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	if r.ContentLength == 0 {
		return nil
	}
	return parseJSON(w, r, dest)
}

func itemTypeParam(r *http.Request) (models.ItemType, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("type"))
	if raw == "" {
		return "", domain.NewValidationError("query parameter type is required (folder or file)")
	}
	t, err := models.ParseItemType(raw)
	if err != nil {
		return "", &domain.ValidationError{Message: err.Error()}
	}
	return t, nil
}
