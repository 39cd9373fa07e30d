package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"drive/internal/domain"
	"drive/internal/httputil"
)

// handleError converts domain errors to RFC 7807 responses. Anything that is
// not a domain error is logged and reported as an opaque 500.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		httputil.RespondProblem(w, http.StatusRequestEntityTooLarge, "too_large", "request body too large", nil)
		return
	}

	var httpErr domain.HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = sentinelError(err)
	}
	if httpErr == nil {
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		httputil.RespondProblem(w, http.StatusInternalServerError, httputil.ReasonInternal, "internal server error", nil)
		return
	}

	var extras map[string]any
	var dup *domain.DuplicateNameError
	var storageErr *domain.StorageError
	switch {
	case errors.As(err, &dup):
		extras = map[string]any{"existing_id": dup.ExistingID}
	case errors.As(err, &storageErr):
		// the wrapped backend error stays in the log
		logger.Error("blob storage failure",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		httputil.RespondProblem(w, httpErr.StatusCode(), httpErr.Reason(), "blob storage failure", nil)
		return
	}

	httputil.RespondProblem(w, httpErr.StatusCode(), httpErr.Reason(), err.Error(), extras)
}

// sentinelError maps bare sentinels (from repositories) onto typed errors
func sentinelError(err error) domain.HTTPError {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return &domain.NotFoundError{ItemType: "item"}
	case errors.Is(err, domain.ErrValidation):
		return &domain.ValidationError{Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return unauthorizedError{}
	default:
		return nil
	}
}

type unauthorizedError struct{}

func (unauthorizedError) Error() string   { return "unauthorized" }
func (unauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (unauthorizedError) Reason() string  { return "unauthorized" }
