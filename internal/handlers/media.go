package handlers

import (
	"encoding/json"
	"net/http"

	"media-store/internal/logging"
	"media-store/internal/media"

	"github.com/gorilla/mux"
)

// ListVideos returns enumerated video records. Repeated "mime" query
// parameters form the MIME allow-list; entries ending in "/*" match by
// prefix.
func (h *Handlers) ListVideos(w http.ResponseWriter, r *http.Request) {
	mimeFilter := r.URL.Query()["mime"]

	records, err := h.store.ListVideos(mimeFilter)
	if err != nil {
		logging.Error("ListVideos failed: %v", err)
		writeJSONError(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, records)
}

// ListAudios returns enumerated music records.
func (h *Handlers) ListAudios(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListAudios()
	if err != nil {
		logging.Error("ListAudios failed: %v", err)
		writeJSONError(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, records)
}

// GetThumbnail serves the cached or freshly generated thumbnail for a video
// id. A video with no producible thumbnail is a 404, not a server error.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	width := dimension(r, "width")
	height := dimension(r, "height")

	data, err := h.store.GetThumbnail(id, width, height)
	if err != nil {
		writeJSONError(w, err.Error(), statusForError(err))
		return
	}
	if data == nil {
		writeJSONError(w, "no thumbnail available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(data); err != nil {
		logging.Debug("thumbnail write failed for %s: %v", id, err)
	}
}

// GetVideo returns one video record with its thumbnail attached.
func (h *Handlers) GetVideo(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	width := dimension(r, "width")
	height := dimension(r, "height")

	record, err := h.store.GetVideoWithThumbnail(id, width, height)
	if err != nil {
		writeJSONError(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, record)
}

// PopulateThumbnails attaches thumbnails to the posted video records in
// bounded-size parallel batches and returns them in the same order.
func (h *Handlers) PopulateThumbnails(w http.ResponseWriter, r *http.Request) {
	var records []*media.VideoRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	width := dimension(r, "width")
	height := dimension(r, "height")

	records, err := h.store.PopulateThumbnails(records, width, height)
	if err != nil {
		writeJSONError(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, records)
}

// FolderCounts returns the folder -> video count mapping from a fresh
// enumeration.
func (h *Handlers) FolderCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.FolderCounts()
	if err != nil {
		logging.Error("FolderCounts failed: %v", err)
		writeJSONError(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, counts)
}

// GetStats reports index contents and thumbnail cache usage.
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.db.Stats()
	if err != nil {
		logging.Error("GetStats failed: %v", err)
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cacheBytes, cacheFiles, err := h.gen.GetCacheSize()
	if err != nil {
		logging.Warn("thumbnail cache size unavailable: %v", err)
	}

	writeJSON(w, map[string]interface{}{
		"index": stats,
		"thumbnailCache": map[string]interface{}{
			"bytes": cacheBytes,
			"files": cacheFiles,
		},
	})
}

// TriggerRescan starts a media rescan in the background.
func (h *Handlers) TriggerRescan(w http.ResponseWriter, r *http.Request) {
	if h.idx.IsRunning() {
		writeJSONStatus(w, "already running")
		return
	}
	go func() {
		if err := h.idx.Scan(); err != nil {
			logging.Error("Triggered rescan failed: %v", err)
		}
	}()
	w.WriteHeader(http.StatusAccepted)
	writeJSONStatus(w, "rescan started")
}
