package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/catslideshow/api/internal/api/response"
	"github.com/catslideshow/api/internal/api/validation"
	"github.com/catslideshow/api/internal/todo"
)

type createTodoRequest struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type updateTodoRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

type todoResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toTodoResponse(t *todo.Todo) todoResponse {
	return todoResponse{
		ID:        t.ID.String(),
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// TodoHandler handles the legacy standalone todo CRUD endpoints. They predate
// multitenancy and require no authentication.
type TodoHandler struct {
	repo todo.Repository
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(repo todo.Repository) *TodoHandler {
	return &TodoHandler{repo: repo}
}

// Create handles POST /todos/.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body must be valid JSON")
		return
	}

	if fieldErrors := validation.ValidateCreateTodo(req.Title); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Input validation failed", fieldErrors)
		return
	}

	t := &todo.Todo{Title: req.Title, Completed: req.Completed}
	if err := h.repo.Create(r.Context(), t); err != nil {
		slog.Error("failed to create todo", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create todo")
		return
	}

	response.JSON(w, http.StatusCreated, toTodoResponse(t))
}

// List handles GET /todos/.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, fieldErrors := parsePagination(r)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Input validation failed", fieldErrors)
		return
	}

	todos, err := h.repo.List(r.Context(), skip, limit)
	if err != nil {
		slog.Error("failed to list todos", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list todos")
		return
	}

	out := make([]todoResponse, 0, len(todos))
	for i := range todos {
		out = append(out, toTodoResponse(&todos[i]))
	}
	response.JSON(w, http.StatusOK, out)
}

// GetByID handles GET /todos/{id}.
func (h *TodoHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		response.Err(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	t, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Todo not found")
			return
		}
		slog.Error("failed to get todo", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get todo")
		return
	}

	response.JSON(w, http.StatusOK, toTodoResponse(t))
}

// Update handles PATCH /todos/{id}.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		response.Err(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body must be valid JSON")
		return
	}

	t, err := h.repo.Update(r.Context(), id, todo.UpdateFields{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Todo not found")
			return
		}
		slog.Error("failed to update todo", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update todo")
		return
	}

	response.JSON(w, http.StatusOK, toTodoResponse(t))
}

// Delete handles DELETE /todos/{id}.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		response.Err(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Todo not found")
			return
		}
		slog.Error("failed to delete todo", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete todo")
		return
	}

	response.NoContent(w)
}
