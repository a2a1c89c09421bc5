package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/denbox/denbox/internal/repository"
	"github.com/denbox/denbox/internal/service"
)

// writeJSON writes v with the given status. Encoding failures are logged;
// by then the status line is already on the wire.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

// writeServiceError maps service and repository errors to HTTP statuses.
// Anything unrecognized is an internal error and must not leak details.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrFileNotFound),
		errors.Is(err, repository.ErrNoteNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "access denied")
	case errors.Is(err, service.ErrPasswordIncorrect):
		writeError(w, http.StatusForbidden, "incorrect password")
	case errors.Is(err, service.ErrUnsupportedMediaType):
		writeError(w, http.StatusUnsupportedMediaType, "file type not allowed")
	case errors.Is(err, service.ErrPayloadTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "file size exceeds limit")
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		slog.Error("unexpected service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
