package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catslideshow/api/internal/api/handler"
	"github.com/catslideshow/api/internal/api/middleware"
	"github.com/catslideshow/api/internal/cat"
	"github.com/catslideshow/api/internal/user"
)

// --- Mock repository ---

type mockCatRepo struct {
	createFn     func(ctx context.Context, c *cat.Cat) error
	getByIDFn    func(ctx context.Context, id, ownerID uuid.UUID) (*cat.Cat, error)
	listFn       func(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]cat.Cat, error)
	listBreedFn  func(ctx context.Context, ownerID uuid.UUID, breed string, skip, limit int) ([]cat.Cat, error)
	listAgeFn    func(ctx context.Context, ownerID uuid.UUID, minAge, maxAge, skip, limit int) ([]cat.Cat, error)
	searchFn     func(ctx context.Context, ownerID uuid.UUID, term string, skip, limit int) ([]cat.Cat, error)
	updateFn     func(ctx context.Context, id, ownerID uuid.UUID, fields cat.UpdateFields) (*cat.Cat, error)
	deleteFn     func(ctx context.Context, id, ownerID uuid.UUID) error
	calledMethod string
}

func (m *mockCatRepo) Create(ctx context.Context, c *cat.Cat) error {
	m.calledMethod = "Create"
	if m.createFn != nil {
		return m.createFn(ctx, c)
	}
	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	return nil
}

func (m *mockCatRepo) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*cat.Cat, error) {
	m.calledMethod = "GetByID"
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id, ownerID)
	}
	return nil, cat.ErrNotFound
}

func (m *mockCatRepo) List(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]cat.Cat, error) {
	m.calledMethod = "List"
	if m.listFn != nil {
		return m.listFn(ctx, ownerID, skip, limit)
	}
	return []cat.Cat{}, nil
}

func (m *mockCatRepo) ListByBreed(ctx context.Context, ownerID uuid.UUID, breed string, skip, limit int) ([]cat.Cat, error) {
	m.calledMethod = "ListByBreed"
	if m.listBreedFn != nil {
		return m.listBreedFn(ctx, ownerID, breed, skip, limit)
	}
	return []cat.Cat{}, nil
}

func (m *mockCatRepo) ListByAgeRange(ctx context.Context, ownerID uuid.UUID, minAge, maxAge, skip, limit int) ([]cat.Cat, error) {
	m.calledMethod = "ListByAgeRange"
	if m.listAgeFn != nil {
		return m.listAgeFn(ctx, ownerID, minAge, maxAge, skip, limit)
	}
	return []cat.Cat{}, nil
}

func (m *mockCatRepo) SearchByDescription(ctx context.Context, ownerID uuid.UUID, term string, skip, limit int) ([]cat.Cat, error) {
	m.calledMethod = "SearchByDescription"
	if m.searchFn != nil {
		return m.searchFn(ctx, ownerID, term, skip, limit)
	}
	return []cat.Cat{}, nil
}

func (m *mockCatRepo) Update(ctx context.Context, id, ownerID uuid.UUID, fields cat.UpdateFields) (*cat.Cat, error) {
	m.calledMethod = "Update"
	if m.updateFn != nil {
		return m.updateFn(ctx, id, ownerID, fields)
	}
	return nil, cat.ErrNotFound
}

func (m *mockCatRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	m.calledMethod = "Delete"
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, ownerID)
	}
	return nil
}

// --- Helpers ---

func testOwner() *user.User {
	return &user.User{
		ID:         uuid.New(),
		Email:      "owner@example.com",
		CognitoSub: "sub-owner",
		Name:       "owner",
	}
}

func makeOwnedRequest(method, path string, body []byte, params map[string]string, owner *user.User) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	if owner != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), owner))
	}

	return req, w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "failed to parse response body")
	return out
}

func parseList(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	var out []interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "failed to parse response body")
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := parseBody(t, w)
	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "response has no error object")
	code, _ := errObj["code"].(string)
	return code
}

func sampleCat(id, ownerID uuid.UUID) *cat.Cat {
	now := time.Now().UTC()
	breed := "tabby"
	age := 3
	return &cat.Cat{
		ID:        id,
		Name:      "Whiskers",
		Breed:     &breed,
		Age:       &age,
		ImageURLs: []string{"https://example.com/whiskers.jpg"},
		UserID:    ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ===== POST /cats/ =====

func TestCatCreate_Success(t *testing.T) {
	t.Parallel()

	owner := testOwner()
	var captured *cat.Cat
	repo := &mockCatRepo{
		createFn: func(_ context.Context, c *cat.Cat) error {
			captured = c
			c.ID = uuid.New()
			c.CreatedAt = time.Now().UTC()
			c.UpdatedAt = c.CreatedAt
			return nil
		},
	}
	h := handler.NewCatHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{
		"name":       "Whiskers",
		"breed":      "tabby",
		"age":        3,
		"image_urls": []string{"https://example.com/whiskers.jpg"},
	})

	req, w := makeOwnedRequest(http.MethodPost, "/cats/", body, nil, owner)
	h.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, owner.ID, captured.UserID, "created cat must belong to the requester")

	resp := parseBody(t, w)
	assert.Equal(t, "Whiskers", resp["name"])
	assert.Equal(t, "tabby", resp["breed"])
	assert.Equal(t, owner.ID.String(), resp["user_id"])
	assert.NotEmpty(t, resp["id"])
}

func TestCatCreate_MissingName(t *testing.T) {
	t.Parallel()

	h := handler.NewCatHandler(&mockCatRepo{})
	body, _ := json.Marshal(map[string]interface{}{"breed": "tabby"})

	req, w := makeOwnedRequest(http.MethodPost, "/cats/", body, nil, testOwner())
	h.Create(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestCatCreate_NegativeAge(t *testing.T) {
	t.Parallel()

	h := handler.NewCatHandler(&mockCatRepo{})
	body, _ := json.Marshal(map[string]interface{}{"name": "Whiskers", "age": -1})

	req, w := makeOwnedRequest(http.MethodPost, "/cats/", body, nil, testOwner())
	h.Create(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestCatCreate_MalformedJSON(t *testing.T) {
	t.Parallel()

	h := handler.NewCatHandler(&mockCatRepo{})

	req, w := makeOwnedRequest(http.MethodPost, "/cats/", []byte("{not json"), nil, testOwner())
	h.Create(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

// ===== GET /cats/ =====

func TestCatList_Default(t *testing.T) {
	t.Parallel()

	owner := testOwner()
	var gotSkip, gotLimit int
	var gotOwner uuid.UUID
	repo := &mockCatRepo{
		listFn: func(_ context.Context, ownerID uuid.UUID, skip, limit int) ([]cat.Cat, error) {
			gotOwner, gotSkip, gotLimit = ownerID, skip, limit
			return []cat.Cat{*sampleCat(uuid.New(), ownerID)}, nil
		},
	}
	h := handler.NewCatHandler(repo)

	req, w := makeOwnedRequest(http.MethodGet, "/cats/", nil, nil, owner)
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, owner.ID, gotOwner)
	assert.Equal(t, 0, gotSkip)
	assert.Equal(t, 100, gotLimit)
	assert.Len(t, parseList(t, w), 1)
}

func TestCatList_EmptyIsJSONArray(t *testing.T) {
	t.Parallel()

	h := handler.NewCatHandler(&mockCatRepo{})

	req, w := makeOwnedRequest(http.MethodGet, "/cats/", nil, nil, testOwner())
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", string(bytes.TrimSpace(w.Body.Bytes())))
}

func TestCatList_LimitClamped(t *testing.T) {
	t.Parallel()

	var gotLimit int
	repo := &mockCatRepo{
		listFn: func(_ context.Context, _ uuid.UUID, _, limit int) ([]cat.Cat, error) {
			gotLimit = limit
			return []cat.Cat{}, nil
		},
	}
	h := handler.NewCatHandler(repo)

	req, w := makeOwnedRequest(http.MethodGet, "/cats/?limit=5000", nil, nil, testOwner())
	h.List(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1000, gotLimit)

	req, w = makeOwnedRequest(http.MethodGet, "/cats/?limit=0", nil, nil, testOwner())
	h.List(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, gotLimit)
}

func TestCatList_NegativeSkipRejected(t *testing.T) {
	t.Parallel()

	h := handler.NewCatHandler(&mockCatRepo{})

	req, w := makeOwnedRequest(http.MethodGet, "/cats/?skip=-1", nil, nil, testOwner())
	h.List(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestCatList_BreedWinsOverSearch(t *testing.T) {
	t.Parallel()

	repo := &mockCatRepo{}
	h := handler.NewCatHandler(repo)

	req, w := makeOwnedRequest(http.MethodGet, "/cats/?breed=tabby&search=fluffy", nil, nil, testOwner())
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ListByBreed", repo.calledMethod, "breed filter takes precedence")
}

func TestCatList_AgeRangeWinsOverSearch(t *testing.T) {
	t.Parallel()

	var gotMin, gotMax int
	repo := &mockCatRepo{
		listAgeFn: func(_ context.Context, _ uuid.UUID, minAge, maxAge, _, _ int) ([]cat.Cat, error) {
			gotMin, gotMax = minAge, maxAge
			return []cat.Cat{}, nil
		},
	}
	h := handler.NewCatHandler(repo)

	req, w := makeOwnedRequest(http.MethodGet, "/cats/?min_age=1&max_age=5&search=fluffy", nil, nil, testOwner())
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ListByAgeRange", repo.calledMethod)
	assert.Equal(t, 1, gotMin)
	assert.Equal(t, 5, gotMax)
}

func TestCatList_HalfAgeRangeFallsThrough(t *testing.T) {
	t.Parallel()

	repo := &mockCatRepo{}
	h := handler.NewCatHandler(repo)

	req, w := makeOwnedRequest(http.MethodGet, "/cats/?min_age=1", nil, nil, testOwner())
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "List", repo.calledMethod, "a lone age bound does not activate the range filter")
}

func TestCatList_Search(t *testing.T) {
	t.Parallel()

	var gotTerm string
	repo := &mockCatRepo{
		searchFn: func(_ context.Context, _ uuid.UUID, term string, _, _ int) ([]cat.Cat, error) {
			gotTerm = term
			return []cat.Cat{}, nil
		},
	}
	h := handler.NewCatHandler(repo)

	req, w := makeOwnedRequest(http.MethodGet, "/cats/?search=fluffy", nil, nil, testOwner())
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SearchByDescription", repo.calledMethod)
	assert.Equal(t, "fluffy", gotTerm)
}

func TestCatList_BadAgeParam(t *testing.T) {
	t.Parallel()

	h := handler.NewCatHandler(&mockCatRepo{})

	req, w := makeOwnedRequest(http.MethodGet, "/cats/?min_age=abc&max_age=5", nil, nil, testOwner())
	h.List(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

// ===== GET /cats/{id} =====

func TestCatGetByID_Success(t *testing.T) {
	t.Parallel()

	owner := testOwner()
	id := uuid.New()
	repo := &mockCatRepo{
		getByIDFn: func(_ context.Context, gotID, gotOwner uuid.UUID) (*cat.Cat, error) {
			assert.Equal(t, id, gotID)
			assert.Equal(t, owner.ID, gotOwner)
			return sampleCat(id, owner.ID), nil
		},
	}
	h := handler.NewCatHandler(repo)

	req, w := makeOwnedRequest(http.MethodGet, "/cats/"+id.String(), nil, map[string]string{"id": id.String()}, owner)
	h.GetByID(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), parseBody(t, w)["id"])
}

func TestCatGetByID_NotFound(t *testing.T) {
	t.Parallel()

	h := handler.NewCatHandler(&mockCatRepo{})
	id := uuid.New()

	req, w := makeOwnedRequest(http.MethodGet, "/cats/"+id.String(), nil, map[string]string{"id": id.String()}, testOwner())
	h.GetByID(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

func TestCatGetByID_BadUUID(t *testing.T) {
	t.Parallel()

	h := handler.NewCatHandler(&mockCatRepo{})

	req, w := makeOwnedRequest(http.MethodGet, "/cats/not-a-uuid", nil, map[string]string{"id": "not-a-uuid"}, testOwner())
	h.GetByID(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

// ===== PATCH /cats/{id} =====

func TestCatUpdate_PartialFields(t *testing.T) {
	t.Parallel()

	owner := testOwner()
	id := uuid.New()
	var captured cat.UpdateFields
	repo := &mockCatRepo{
		updateFn: func(_ context.Context, _, _ uuid.UUID, fields cat.UpdateFields) (*cat.Cat, error) {
			captured = fields
			c := sampleCat(id, owner.ID)
			c.Name = *fields.Name
			return c, nil
		},
	}
	h := handler.NewCatHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"name": "Mittens"})
	req, w := makeOwnedRequest(http.MethodPatch, "/cats/"+id.String(), body, map[string]string{"id": id.String()}, owner)
	h.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured.Name)
	assert.Equal(t, "Mittens", *captured.Name)
	assert.Nil(t, captured.Breed, "absent fields are not touched")
	assert.Nil(t, captured.Age)
	assert.Nil(t, captured.ImageURLs)
	assert.Equal(t, "Mittens", parseBody(t, w)["name"])
}

func TestCatUpdate_NotFound(t *testing.T) {
	t.Parallel()

	h := handler.NewCatHandler(&mockCatRepo{})
	id := uuid.New()

	body, _ := json.Marshal(map[string]interface{}{"name": "Mittens"})
	req, w := makeOwnedRequest(http.MethodPatch, "/cats/"+id.String(), body, map[string]string{"id": id.String()}, testOwner())
	h.Update(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ===== DELETE /cats/{id} =====

func TestCatDelete_Success(t *testing.T) {
	t.Parallel()

	owner := testOwner()
	id := uuid.New()
	var gotOwner uuid.UUID
	repo := &mockCatRepo{
		deleteFn: func(_ context.Context, _, ownerID uuid.UUID) error {
			gotOwner = ownerID
			return nil
		},
	}
	h := handler.NewCatHandler(repo)

	req, w := makeOwnedRequest(http.MethodDelete, "/cats/"+id.String(), nil, map[string]string{"id": id.String()}, owner)
	h.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
	assert.Equal(t, owner.ID, gotOwner)
}

func TestCatDelete_NotFound(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &mockCatRepo{
		deleteFn: func(_ context.Context, _, _ uuid.UUID) error {
			return cat.ErrNotFound
		},
	}
	h := handler.NewCatHandler(repo)

	req, w := makeOwnedRequest(http.MethodDelete, "/cats/"+id.String(), nil, map[string]string{"id": id.String()}, testOwner())
	h.Delete(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
