package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/pebblesync/internal/importer"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(imp *importer.Importer, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(imp)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Post("/import", h.TriggerImport)
	r.Get("/status", h.Status)
	r.Post("/history/reset", h.ResetHistory)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
