package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/catslideshow/api/internal/api/middleware"
	"github.com/catslideshow/api/internal/api/response"
	"github.com/catslideshow/api/internal/api/validation"
	"github.com/catslideshow/api/internal/cat"
)

// createCatRequest is the request body for POST /cats/.
type createCatRequest struct {
	Name        string   `json:"name"`
	Breed       *string  `json:"breed"`
	Age         *int     `json:"age"`
	Color       *string  `json:"color"`
	Description *string  `json:"description"`
	ImageURLs   []string `json:"image_urls"`
}

// updateCatRequest is the request body for PATCH /cats/{id}. Absent fields
// are left untouched.
type updateCatRequest struct {
	Name        *string   `json:"name"`
	Breed       *string   `json:"breed"`
	Age         *int      `json:"age"`
	Color       *string   `json:"color"`
	Description *string   `json:"description"`
	ImageURLs   *[]string `json:"image_urls"`
}

// catResponse is the API representation of a cat record.
type catResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Breed       *string  `json:"breed"`
	Age         *int     `json:"age"`
	Color       *string  `json:"color"`
	Description *string  `json:"description"`
	ImageURLs   []string `json:"image_urls"`
	UserID      string   `json:"user_id"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func toCatResponse(c *cat.Cat) catResponse {
	return catResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Breed:       c.Breed,
		Age:         c.Age,
		Color:       c.Color,
		Description: c.Description,
		ImageURLs:   c.ImageURLs,
		UserID:      c.UserID.String(),
		CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toCatResponses(cats []cat.Cat) []catResponse {
	out := make([]catResponse, 0, len(cats))
	for i := range cats {
		out = append(out, toCatResponse(&cats[i]))
	}
	return out
}

// CatHandler handles the owner-scoped cat CRUD endpoints.
type CatHandler struct {
	repo cat.Repository
}

// NewCatHandler creates a new CatHandler.
func NewCatHandler(repo cat.Repository) *CatHandler {
	return &CatHandler{repo: repo}
}

// Create handles POST /cats/.
func (h *CatHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUser(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	var req createCatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateCreateCat(validation.CreateCatRequest{
		Name: req.Name,
		Age:  req.Age,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Input validation failed", fieldErrors)
		return
	}

	c := &cat.Cat{
		Name:        req.Name,
		Breed:       req.Breed,
		Age:         req.Age,
		Color:       req.Color,
		Description: req.Description,
		ImageURLs:   req.ImageURLs,
		UserID:      owner.ID,
	}

	if err := h.repo.Create(r.Context(), c); err != nil {
		slog.Error("failed to create cat", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create cat")
		return
	}

	response.JSON(w, http.StatusCreated, toCatResponse(c))
}

// List handles GET /cats/. At most one of the breed, age-range and search
// filters applies per request; when several are supplied, precedence is
// breed, then age range, then search. Filters are never composed.
func (h *CatHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUser(r.Context())

	skip, limit, fieldErrors := parsePagination(r)

	q := r.URL.Query()
	breed := q.Get("breed")
	search := q.Get("search")

	var minAge, maxAge *int
	for _, p := range []struct {
		name string
		dst  **int
	}{
		{"min_age", &minAge},
		{"max_age", &maxAge},
	} {
		if v := q.Get(p.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				fieldErrors = append(fieldErrors, validation.FieldError{Field: p.name, Message: p.name + " must be a non-negative integer"})
				continue
			}
			*p.dst = &n
		}
	}

	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Input validation failed", fieldErrors)
		return
	}

	var (
		cats []cat.Cat
		err  error
	)
	switch {
	case breed != "":
		cats, err = h.repo.ListByBreed(r.Context(), owner.ID, breed, skip, limit)
	case minAge != nil && maxAge != nil:
		cats, err = h.repo.ListByAgeRange(r.Context(), owner.ID, *minAge, *maxAge, skip, limit)
	case search != "":
		cats, err = h.repo.SearchByDescription(r.Context(), owner.ID, search, skip, limit)
	default:
		cats, err = h.repo.List(r.Context(), owner.ID, skip, limit)
	}
	if err != nil {
		slog.Error("failed to list cats", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list cats")
		return
	}

	response.JSON(w, http.StatusOK, toCatResponses(cats))
}

// GetByID handles GET /cats/{id}.
func (h *CatHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUser(r.Context())

	id, ok := uuidParam(r, "id")
	if !ok {
		response.Err(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	c, err := h.repo.GetByID(r.Context(), id, owner.ID)
	if err != nil {
		if errors.Is(err, cat.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Cat not found")
			return
		}
		slog.Error("failed to get cat", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get cat")
		return
	}

	response.JSON(w, http.StatusOK, toCatResponse(c))
}

// Update handles PATCH /cats/{id}.
func (h *CatHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUser(r.Context())

	id, ok := uuidParam(r, "id")
	if !ok {
		response.Err(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateCatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body must be valid JSON")
		return
	}

	c, err := h.repo.Update(r.Context(), id, owner.ID, cat.UpdateFields{
		Name:        req.Name,
		Breed:       req.Breed,
		Age:         req.Age,
		Color:       req.Color,
		Description: req.Description,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		if errors.Is(err, cat.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Cat not found")
			return
		}
		slog.Error("failed to update cat", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update cat")
		return
	}

	response.JSON(w, http.StatusOK, toCatResponse(c))
}

// Delete handles DELETE /cats/{id}.
func (h *CatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUser(r.Context())

	id, ok := uuidParam(r, "id")
	if !ok {
		response.Err(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	if err := h.repo.Delete(r.Context(), id, owner.ID); err != nil {
		if errors.Is(err, cat.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Cat not found")
			return
		}
		slog.Error("failed to delete cat", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete cat")
		return
	}

	response.NoContent(w)
}
