package handler

import (
	"log/slog"
	"net/http"

	"github.com/denbox/denbox/internal/ctxkeys"
	"github.com/denbox/denbox/internal/model"
	"github.com/denbox/denbox/internal/service"
)

type NoteHandler struct {
	noteService *service.NoteService
}

func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
	}
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	targetUserID := r.URL.Query().Get("user_id")

	notes, err := h.noteService.Notes(user, targetUserID)
	if err != nil {
		slog.Warn("failed to list notes", "error", err, "user_id", user.ID, "target", targetUserID)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"notes":   notes,
	})
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	title := r.FormValue("title")
	content := r.FormValue("content")

	note, err := h.noteService.Create(user, title, content)
	if err != nil {
		slog.Warn("note create rejected", "error", err, "user_id", user.ID)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "note created successfully",
		"note":    note,
	})
}

func (h *NoteHandler) Search(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	query := r.URL.Query().Get("q")

	notes, err := h.noteService.Search(user, query)
	if err != nil {
		slog.Error("note search failed", "error", err, "user_id", user.ID)
		writeServiceError(w, err)
		return
	}

	if notes == nil {
		notes = []*model.Note{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"notes":   notes,
	})
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	noteID := r.PathValue("id")

	err := h.noteService.Delete(user, noteID)
	if err != nil {
		slog.Warn("note delete failed", "error", err, "user_id", user.ID, "note_id", noteID)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
	})
}

// Debug is the admin-gated diagnostic: every user and every note.
func (h *NoteHandler) Debug(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	report, err := h.noteService.Debug(user)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"users":   report.Users,
		"notes":   report.Notes,
	})
}
