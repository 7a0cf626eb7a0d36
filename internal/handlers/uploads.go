package handlers

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/lostfound/apiserver/internal/storage"
)

// UploadsHandler serves stored report images.
type UploadsHandler struct {
	uploads *storage.Storage
}

// NewUploadsHandler constructs a handler over the upload storage.
func NewUploadsHandler(uploads *storage.Storage) *UploadsHandler {
	return &UploadsHandler{uploads: uploads}
}

// UploadsRouter registers the image-serving route on the given router.
func UploadsRouter(r chi.Router, uploads *storage.Storage) {
	handler := NewUploadsHandler(uploads)
	r.Get("/{key}", handler.GetImage)
}

// GetImage streams a stored image to the client.
func (h *UploadsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	object, err := h.uploads.Get(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}
	defer object.Close()

	if contentType := mime.TypeByExtension(filepath.Ext(key)); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	if _, err := io.Copy(w, object); err != nil {
		// Headers are already written; nothing left to report.
		return
	}
}
