package handler

import (
	"net/http"

	"github.com/denbox/denbox/internal/ctxkeys"
)

type HubHandler struct{}

func NewHubHandler() *HubHandler {
	return &HubHandler{}
}

// Hub is the landing view after login: who you are and which apps exist.
func (h *HubHandler) Hub(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"username": user.Username,
		"apps":     []string{"files", "notes"},
	})
}
