package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catslideshow/api/internal/api/middleware"
)

func TestRequestID_Generated(t *testing.T) {
	t.Parallel()

	var fromCtx string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = middleware.GetRequestID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	middleware.RequestID(next).ServeHTTP(w, req)

	require.NotEmpty(t, fromCtx)
	_, err := uuid.Parse(fromCtx)
	assert.NoError(t, err)
	assert.Equal(t, fromCtx, w.Header().Get("X-Request-ID"))
}

func TestRequestID_Propagated(t *testing.T) {
	t.Parallel()

	var fromCtx string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = middleware.GetRequestID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	w := httptest.NewRecorder()
	middleware.RequestID(next).ServeHTTP(w, req)

	assert.Equal(t, "client-supplied-id", fromCtx)
	assert.Equal(t, "client-supplied-id", w.Header().Get("X-Request-ID"))
}

func TestGetRequestID_EmptyContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, middleware.GetRequestID(context.Background()))
}
