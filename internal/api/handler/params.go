package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/catslideshow/api/internal/api/validation"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// parsePagination reads the skip/limit query parameters. skip defaults to 0
// and must be non-negative; limit defaults to 100 and is clamped to
// [1, 1000]. Non-integer values are reported as field errors.
func parsePagination(r *http.Request) (skip, limit int, errs []validation.FieldError) {
	skip = 0
	limit = defaultLimit

	if v := r.URL.Query().Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, validation.FieldError{Field: "skip", Message: "skip must be a non-negative integer"})
		} else {
			skip = n
		}
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, validation.FieldError{Field: "limit", Message: "limit must be an integer"})
		} else {
			limit = n
		}
	}

	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return skip, limit, errs
}

// uuidParam parses a UUID path parameter.
func uuidParam(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}
