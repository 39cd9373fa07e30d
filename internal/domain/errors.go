package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
	Reason() string
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrCycle        = errors.New("move would create a cycle")
	ErrStorage      = errors.New("blob storage failure")
)

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a missing or trashed item or destination
	NotFoundError struct {
		ItemType string
		ID       string
	}

	// AccessDeniedError indicates the actor lacks the required access level
	AccessDeniedError struct {
		ActorID  string
		ItemID   string
		Required string
	}

	// CycleError indicates a folder move into itself or one of its descendants
	CycleError struct {
		FolderID      string
		DestinationID string
	}

	// DuplicateNameError is raised by create and rename on a live sibling collision
	DuplicateNameError struct {
		Name       string
		ItemType   string
		ExistingID string
	}

	// StorageError wraps a blob store failure
	StorageError struct {
		Op  string
		Ref string
		Err error
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.ItemType)
	}
	return fmt.Sprintf("%s %s not found", e.ItemType, e.ID)
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied to %s: requires %s", e.ItemID, e.Required)
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cannot move folder %s into %s: folder would become its own ancestor", e.FolderID, e.DestinationID)
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("a %s named %q already exists in this location", e.ItemType, e.Name)
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("blob %s %s: %v", e.Op, e.Ref, e.Err)
}

func (e *ValidationError) Error() string { return e.Message }

func (e *StorageError) Unwrap() error { return e.Err }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int      { return http.StatusNotFound }
func (e *AccessDeniedError) StatusCode() int  { return http.StatusForbidden }
func (e *CycleError) StatusCode() int         { return http.StatusBadRequest }
func (e *DuplicateNameError) StatusCode() int { return http.StatusConflict }
func (e *StorageError) StatusCode() int       { return http.StatusInternalServerError }
func (e *ValidationError) StatusCode() int    { return http.StatusBadRequest }

// Reason implementations, stable strings clients can switch on
func (e *NotFoundError) Reason() string      { return "not_found" }
func (e *AccessDeniedError) Reason() string  { return "access_denied" }
func (e *CycleError) Reason() string         { return "cycle" }
func (e *DuplicateNameError) Reason() string { return "duplicate_name" }
func (e *StorageError) Reason() string       { return "storage" }
func (e *ValidationError) Reason() string    { return "validation" }

// Is lets typed errors match their sentinels via errors.Is()
func (e *NotFoundError) Is(target error) bool      { return target == ErrNotFound }
func (e *AccessDeniedError) Is(target error) bool  { return target == ErrForbidden }
func (e *CycleError) Is(target error) bool         { return target == ErrCycle }
func (e *DuplicateNameError) Is(target error) bool { return target == ErrConflict }
func (e *StorageError) Is(target error) bool       { return target == ErrStorage }
func (e *ValidationError) Is(target error) bool    { return target == ErrValidation }

// NewValidationError formats a ValidationError
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is or wraps ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
