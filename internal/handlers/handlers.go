package handlers

import (
	"errors"
	"net/http"

	"media-store/internal/database"
	"media-store/internal/indexer"
	"media-store/internal/media"

	"github.com/gorilla/mux"
)

// Handlers holds the collaborators HTTP handlers delegate to.
type Handlers struct {
	store *media.Store
	gen   *media.ThumbnailGenerator
	db    *database.Database
	idx   *indexer.Indexer
}

// New creates the handler set.
func New(store *media.Store, gen *media.ThumbnailGenerator, db *database.Database, idx *indexer.Indexer) *Handlers {
	return &Handlers{store: store, gen: gen, db: db, idx: idx}
}

// RegisterRoutes attaches all API routes to the router.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/videos", h.ListVideos).Methods(http.MethodGet)
	api.HandleFunc("/videos/thumbnails", h.PopulateThumbnails).Methods(http.MethodPost)
	api.HandleFunc("/videos/{id}", h.GetVideo).Methods(http.MethodGet)
	api.HandleFunc("/videos/{id}/thumbnail", h.GetThumbnail).Methods(http.MethodGet)
	api.HandleFunc("/audios", h.ListAudios).Methods(http.MethodGet)
	api.HandleFunc("/folders", h.FolderCounts).Methods(http.MethodGet)
	api.HandleFunc("/stats", h.GetStats).Methods(http.MethodGet)
	api.HandleFunc("/rescan", h.TriggerRescan).Methods(http.MethodPost)

	r.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet)
}

// Healthz reports liveness.
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSONStatus(w, "ok")
}

// statusForError maps store errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, media.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, media.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, media.ErrIndexQuery):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
