package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/feed"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *feed.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Current digest.
	r.Get("/digest", h.GetDigest)
	r.Get("/items", h.ListItems)
	r.Get("/watchlist", h.GetWatchlist)

	// Archive history.
	r.Get("/archive", h.ListArchive)
	r.Get("/archive/search", h.SearchArchive)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
