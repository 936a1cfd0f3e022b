package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catslideshow/api/internal/api/handler"
	"github.com/catslideshow/api/internal/todo"
)

type mockTodoRepo struct {
	createFn  func(ctx context.Context, t *todo.Todo) error
	getByIDFn func(ctx context.Context, id uuid.UUID) (*todo.Todo, error)
	listFn    func(ctx context.Context, skip, limit int) ([]todo.Todo, error)
	updateFn  func(ctx context.Context, id uuid.UUID, fields todo.UpdateFields) (*todo.Todo, error)
	deleteFn  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTodoRepo) Create(ctx context.Context, t *todo.Todo) error {
	if m.createFn != nil {
		return m.createFn(ctx, t)
	}
	t.ID = uuid.New()
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	return nil
}

func (m *mockTodoRepo) GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, todo.ErrNotFound
}

func (m *mockTodoRepo) List(ctx context.Context, skip, limit int) ([]todo.Todo, error) {
	if m.listFn != nil {
		return m.listFn(ctx, skip, limit)
	}
	return []todo.Todo{}, nil
}

func (m *mockTodoRepo) Update(ctx context.Context, id uuid.UUID, fields todo.UpdateFields) (*todo.Todo, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, fields)
	}
	return nil, todo.ErrNotFound
}

func (m *mockTodoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func TestTodoCreate_Success(t *testing.T) {
	t.Parallel()

	h := handler.NewTodoHandler(&mockTodoRepo{})
	body, _ := json.Marshal(map[string]interface{}{"title": "feed the cats", "completed": false})

	req, w := makeOwnedRequest(http.MethodPost, "/todos/", body, nil, nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := parseBody(t, w)
	assert.Equal(t, "feed the cats", resp["title"])
	assert.Equal(t, false, resp["completed"])
}

func TestTodoCreate_MissingTitle(t *testing.T) {
	t.Parallel()

	h := handler.NewTodoHandler(&mockTodoRepo{})
	body, _ := json.Marshal(map[string]interface{}{"completed": true})

	req, w := makeOwnedRequest(http.MethodPost, "/todos/", body, nil, nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestTodoUpdate_CompletedOnly(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	var captured todo.UpdateFields
	repo := &mockTodoRepo{
		updateFn: func(_ context.Context, _ uuid.UUID, fields todo.UpdateFields) (*todo.Todo, error) {
			captured = fields
			now := time.Now().UTC()
			return &todo.Todo{ID: id, Title: "feed the cats", Completed: true, CreatedAt: now, UpdatedAt: now}, nil
		},
	}
	h := handler.NewTodoHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"completed": true})
	req, w := makeOwnedRequest(http.MethodPatch, "/todos/"+id.String(), body, map[string]string{"id": id.String()}, nil)
	h.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured.Completed)
	assert.True(t, *captured.Completed)
	assert.Nil(t, captured.Title)
}

func TestTodoGetByID_NotFound(t *testing.T) {
	t.Parallel()

	h := handler.NewTodoHandler(&mockTodoRepo{})
	id := uuid.New()

	req, w := makeOwnedRequest(http.MethodGet, "/todos/"+id.String(), nil, map[string]string{"id": id.String()}, nil)
	h.GetByID(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTodoDelete_Success(t *testing.T) {
	t.Parallel()

	h := handler.NewTodoHandler(&mockTodoRepo{})
	id := uuid.New()

	req, w := makeOwnedRequest(http.MethodDelete, "/todos/"+id.String(), nil, map[string]string{"id": id.String()}, nil)
	h.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
