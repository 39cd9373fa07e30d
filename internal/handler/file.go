package handler

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"drive/internal/domain"
	driveSvc "drive/internal/domain/services/drive"
	"drive/internal/httputil"
)

// multipartMemory is how much of an upload ParseMultipartForm keeps in memory
// before spilling to temp files
const multipartMemory = 8 << 20

// FileHandler handles file upload and lookup
type FileHandler struct {
	fileService    driveSvc.FileService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService driveSvc.FileService, maxUploadBytes int64, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService:    fileService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// upload is one received multipart file part
type upload struct {
	file     multipart.File
	name     string
	mimeType string
	size     int64
}

// readUpload parses a multipart body with a "file" part. The form value
// "name" overrides the client filename.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (*upload, error) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, tooLarge
		}
		return nil, domain.NewValidationError("invalid multipart body: %v", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, domain.NewValidationError("multipart field file is required")
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = header.Filename
	}
	return &upload{
		file:     file,
		name:     name,
		mimeType: header.Header.Get("Content-Type"),
		size:     header.Size,
	}, nil
}

// UploadFile stores a new file
// POST /api/files (multipart: file, name, folderId)
func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
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

	file, err := h.fileService.UploadFile(r.Context(), &driveSvc.UploadFileRequest{
		Actor:    actor,
		Name:     up.name,
		FolderID: folderRef(r.FormValue("folderId")),
		MimeType: up.mimeType,
		Size:     up.size,
		Body:     up.file,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, file)
}

// GetFile retrieves file metadata
// GET /api/files/{id}
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	file, err := h.fileService.GetFile(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, file)
}
