// Package validation holds request body and query parameter validation.
// Failures surface as 422 responses with per-field details.
package validation

import "strings"

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CreateCatRequest mirrors the fields needed for cat create validation.
type CreateCatRequest struct {
	Name string
	Age  *int
}

// ValidateCreateCat validates a cat creation request.
// Returns a slice of field errors; empty slice means valid.
func ValidateCreateCat(req CreateCatRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if req.Age != nil && *req.Age < 0 {
		errs = append(errs, FieldError{Field: "age", Message: "age must not be negative"})
	}

	return errs
}

// CreateSlideshowRequest mirrors the fields needed for slideshow create validation.
type CreateSlideshowRequest struct {
	Title string
}

// ValidateCreateSlideshow validates a slideshow creation request.
func ValidateCreateSlideshow(req CreateSlideshowRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	}

	return errs
}

// ValidateCreateTodo validates a todo creation request.
func ValidateCreateTodo(title string) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	}

	return errs
}

// ValidateCredentials validates an email/password pair for the auth endpoints.
func ValidateCredentials(email, password string) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	} else if !strings.Contains(email, "@") {
		errs = append(errs, FieldError{Field: "email", Message: "email must be a valid address"})
	}
	if password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}

	return errs
}
