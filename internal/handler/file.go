package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/denbox/denbox/internal/ctxkeys"
	"github.com/denbox/denbox/internal/service"
	"github.com/denbox/denbox/internal/validation"
)

type FileHandler struct {
	fileService *service.FileService
}

func NewFileHandler(fileService *service.FileService) *FileHandler {
	return &FileHandler{
		fileService: fileService,
	}
}

func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	files, err := h.fileService.Files(user.ID)
	if err != nil {
		slog.Error("failed to list files", "error", err, "user_id", user.ID)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"files":   files,
	})
}

func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	// Cap the request body at the blob limit plus form overhead; the exact
	// size check runs in the service against the part size.
	r.Body = http.MaxBytesReader(w, r.Body, validation.DefaultUploadConstraints.MaxSize+1<<20)

	err := r.ParseMultipartForm(1 << 20)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "file size exceeds limit")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file part")
		return
	}
	defer func() { _ = file.Close() }()

	isPublic := r.FormValue("public") == "on" || r.FormValue("public") == "true"
	password := r.FormValue("password")

	created, err := h.fileService.Upload(user, file, header, isPublic, password)
	if err != nil {
		slog.Warn("file upload rejected", "error", err, "user_id", user.ID, "filename", header.Filename)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "file uploaded successfully",
		"file":    created,
	})
}

func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	fileID := r.PathValue("id")

	err := h.fileService.Delete(user, fileID)
	if err != nil {
		slog.Warn("file delete failed", "error", err, "user_id", user.ID, "file_id", fileID)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "file deleted successfully",
	})
}

// Download streams the blob as an attachment. For password-protected files a
// GET without a password yields a 200 challenge; a wrong password yields 403.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	fileID := r.PathValue("id")

	password := r.FormValue("password")

	file, blob, err := h.fileService.Download(user, fileID, password)
	if errors.Is(err, service.ErrPasswordRequired) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":   false,
			"challenge": "password_required",
			"file_id":   file.ID,
			"filename":  file.Filename,
		})
		return
	}
	if err != nil {
		slog.Warn("file download refused", "error", err, "user_id", user.ID, "file_id", fileID)
		writeServiceError(w, err)
		return
	}
	defer func() { _ = blob.Close() }()

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	if file.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	}

	_, err = io.Copy(w, blob)
	if err != nil {
		// Headers are gone; all we can do is log
		slog.Error("failed to stream blob", "error", err, "file_id", file.ID)
	}
}
