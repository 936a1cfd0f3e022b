// Package response provides JSON response helpers. Success bodies are the
// plain resource representation; error bodies carry a structured code and
// message.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error represents a structured API error.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type errorBody struct {
	Error *Error `json:"error"`
}

// JSON writes a JSON response with the given status code and body.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// NoContent writes a 204 No Content response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Err writes an error JSON response.
func Err(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, errorBody{Error: &Error{Code: code, Message: message}})
}

// ErrWithDetails writes an error JSON response with additional details.
func ErrWithDetails(w http.ResponseWriter, status int, code, message string, details any) {
	JSON(w, status, errorBody{Error: &Error{Code: code, Message: message, Details: details}})
}
