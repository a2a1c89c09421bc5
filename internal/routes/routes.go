package routes

import (
	"net/http"

	"github.com/denbox/denbox/internal/app"
	"github.com/denbox/denbox/internal/handler"
	"github.com/denbox/denbox/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	hub := handler.NewHubHandler()
	files := handler.NewFileHandler(app.FileService)
	notes := handler.NewNoteHandler(app.NoteService)

	mux := http.NewServeMux()

	// Session (rate limited)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /auth/logout", auth.Logout)

	// Hub
	mux.HandleFunc("GET /hub", middleware.RequireAuth(hub.Hub))

	// Files app
	mux.HandleFunc("GET /apps/files/{$}", middleware.RequireAuth(files.List))
	mux.HandleFunc("POST /apps/files/upload", middleware.RequireAuth(files.Upload))
	mux.HandleFunc("DELETE /apps/files/delete/{id}", middleware.RequireAuth(files.Delete))
	mux.HandleFunc("GET /apps/files/download/{id}", middleware.RequireAuth(files.Download))
	mux.HandleFunc("POST /apps/files/download/{id}", middleware.RequireAuth(files.Download))

	// Notes app
	mux.HandleFunc("GET /apps/notes/{$}", middleware.RequireAuth(notes.List))
	mux.HandleFunc("POST /apps/notes/create", middleware.RequireAuth(notes.Create))
	mux.HandleFunc("GET /apps/notes/search", middleware.RequireAuth(notes.Search))
	mux.HandleFunc("DELETE /apps/notes/delete/{id}", middleware.RequireAuth(notes.Delete))
	mux.HandleFunc("GET /apps/notes/debug", middleware.RequireAuth(notes.Debug))

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.Auth(app.AuthService, app.UserRepository),
	)

	return h
}
