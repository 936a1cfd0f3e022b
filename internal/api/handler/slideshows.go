package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/catslideshow/api/internal/api/middleware"
	"github.com/catslideshow/api/internal/api/response"
	"github.com/catslideshow/api/internal/api/validation"
	"github.com/catslideshow/api/internal/slideshow"
)

// createSlideshowRequest is the request body for POST /slideshows/.
type createSlideshowRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	ImageURLs   []string `json:"image_urls"`
	CatID       *string  `json:"cat_id"`
}

// updateSlideshowRequest is the request body for PATCH /slideshows/{id}.
// Absent fields are left untouched.
type updateSlideshowRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	ImageURLs   *[]string `json:"image_urls"`
	CatID       *string   `json:"cat_id"`
}

// slideshowResponse is the API representation of a slideshow record.
type slideshowResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	ImageURLs   []string `json:"image_urls"`
	CatID       *string  `json:"cat_id"`
	UserID      string   `json:"user_id"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func toSlideshowResponse(s *slideshow.Slideshow) slideshowResponse {
	resp := slideshowResponse{
		ID:          s.ID.String(),
		Title:       s.Title,
		Description: s.Description,
		ImageURLs:   s.ImageURLs,
		UserID:      s.UserID.String(),
		CreatedAt:   s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   s.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if s.CatID != nil {
		catID := s.CatID.String()
		resp.CatID = &catID
	}
	return resp
}

func toSlideshowResponses(shows []slideshow.Slideshow) []slideshowResponse {
	out := make([]slideshowResponse, 0, len(shows))
	for i := range shows {
		out = append(out, toSlideshowResponse(&shows[i]))
	}
	return out
}

// SlideshowHandler handles the owner-scoped slideshow endpoints.
type SlideshowHandler struct {
	repo slideshow.Repository
}

// NewSlideshowHandler creates a new SlideshowHandler.
func NewSlideshowHandler(repo slideshow.Repository) *SlideshowHandler {
	return &SlideshowHandler{repo: repo}
}

// parseCatID converts an optional cat_id body field to a UUID.
func parseCatID(raw *string) (*uuid.UUID, *validation.FieldError) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, &validation.FieldError{Field: "cat_id", Message: "cat_id must be a valid UUID"}
	}
	return &id, nil
}

// Create handles POST /slideshows/.
func (h *SlideshowHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUser(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	var req createSlideshowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateCreateSlideshow(validation.CreateSlideshowRequest{
		Title: req.Title,
	})
	catID, fieldErr := parseCatID(req.CatID)
	if fieldErr != nil {
		fieldErrors = append(fieldErrors, *fieldErr)
	}
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Input validation failed", fieldErrors)
		return
	}

	s := &slideshow.Slideshow{
		Title:       req.Title,
		Description: req.Description,
		ImageURLs:   req.ImageURLs,
		CatID:       catID,
		UserID:      owner.ID,
	}

	if err := h.repo.Create(r.Context(), s); err != nil {
		slog.Error("failed to create slideshow", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create slideshow")
		return
	}

	response.JSON(w, http.StatusCreated, toSlideshowResponse(s))
}

// List handles GET /slideshows/.
func (h *SlideshowHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUser(r.Context())

	skip, limit, fieldErrors := parsePagination(r)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Input validation failed", fieldErrors)
		return
	}

	shows, err := h.repo.List(r.Context(), owner.ID, skip, limit)
	if err != nil {
		slog.Error("failed to list slideshows", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list slideshows")
		return
	}

	response.JSON(w, http.StatusOK, toSlideshowResponses(shows))
}

// GetByID handles GET /slideshows/{id}.
func (h *SlideshowHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUser(r.Context())

	id, ok := uuidParam(r, "id")
	if !ok {
		response.Err(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	s, err := h.repo.GetByID(r.Context(), id, owner.ID)
	if err != nil {
		if errors.Is(err, slideshow.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Slideshow not found")
			return
		}
		slog.Error("failed to get slideshow", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get slideshow")
		return
	}

	response.JSON(w, http.StatusOK, toSlideshowResponse(s))
}

// Update handles PATCH /slideshows/{id}.
func (h *SlideshowHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUser(r.Context())

	id, ok := uuidParam(r, "id")
	if !ok {
		response.Err(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateSlideshowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body must be valid JSON")
		return
	}

	catID, fieldErr := parseCatID(req.CatID)
	if fieldErr != nil {
		response.ErrWithDetails(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Input validation failed", []validation.FieldError{*fieldErr})
		return
	}

	s, err := h.repo.Update(r.Context(), id, owner.ID, slideshow.UpdateFields{
		Title:       req.Title,
		Description: req.Description,
		ImageURLs:   req.ImageURLs,
		CatID:       catID,
	})
	if err != nil {
		if errors.Is(err, slideshow.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Slideshow not found")
			return
		}
		slog.Error("failed to update slideshow", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update slideshow")
		return
	}

	response.JSON(w, http.StatusOK, toSlideshowResponse(s))
}

// Delete handles DELETE /slideshows/{id}.
func (h *SlideshowHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUser(r.Context())

	id, ok := uuidParam(r, "id")
	if !ok {
		response.Err(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	if err := h.repo.Delete(r.Context(), id, owner.ID); err != nil {
		if errors.Is(err, slideshow.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Slideshow not found")
			return
		}
		slog.Error("failed to delete slideshow", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete slideshow")
		return
	}

	response.NoContent(w)
}

// ListByCat handles GET /slideshows/cat/{cat_id}.
func (h *SlideshowHandler) ListByCat(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUser(r.Context())

	catID, ok := uuidParam(r, "cat_id")
	if !ok {
		response.Err(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "cat_id must be a valid UUID")
		return
	}

	skip, limit, fieldErrors := parsePagination(r)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Input validation failed", fieldErrors)
		return
	}

	shows, err := h.repo.ListByCat(r.Context(), owner.ID, catID, skip, limit)
	if err != nil {
		slog.Error("failed to list slideshows by cat", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list slideshows")
		return
	}

	response.JSON(w, http.StatusOK, toSlideshowResponses(shows))
}

// Search handles GET /slideshows/search/{term}.
func (h *SlideshowHandler) Search(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUser(r.Context())

	term := chi.URLParam(r, "term")

	skip, limit, fieldErrors := parsePagination(r)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Input validation failed", fieldErrors)
		return
	}

	shows, err := h.repo.SearchByTitle(r.Context(), owner.ID, term, skip, limit)
	if err != nil {
		slog.Error("failed to search slideshows", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to search slideshows")
		return
	}

	response.JSON(w, http.StatusOK, toSlideshowResponses(shows))
}
