package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/catslideshow/api/internal/api/response"
	"github.com/catslideshow/api/internal/images"
)

// ImageLister lists the public URLs of every object in the cat-images bucket.
type ImageLister interface {
	PublicURLs(ctx context.Context) ([]string, error)
}

// CatImagesHandler handles GET /cat-images/.
type CatImagesHandler struct {
	lister ImageLister
}

// NewCatImagesHandler creates a new CatImagesHandler.
func NewCatImagesHandler(lister ImageLister) *CatImagesHandler {
	return &CatImagesHandler{lister: lister}
}

// List returns the public URL of every object in the bucket.
func (h *CatImagesHandler) List(w http.ResponseWriter, r *http.Request) {
	urls, err := h.lister.PublicURLs(r.Context())
	if err != nil {
		var se *images.StoreError
		if errors.As(err, &se) {
			response.Err(w, http.StatusInternalServerError, "UPSTREAM_ERROR", se.Error())
			return
		}
		slog.Error("failed to list cat images", "error", err)
		response.Err(w, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "Object store unavailable")
		return
	}

	response.JSON(w, http.StatusOK, urls)
}
