package bff

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherConvertsRouteErrors(t *testing.T) {
	t.Parallel()

	dispatcher := NewDispatcher(RouteMiddleware(RouteTable{}, ""))

	rec := httptest.NewRecorder()
	dispatcher.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown/path", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Route not found", body["message"])
}

func TestDispatcherMethodNotAllowed(t *testing.T) {
	t.Parallel()

	table := RouteTable{
		{Pattern: "/gifts/:id", Methods: map[string]Handler{http.MethodGet: okHandler("gift")}},
	}
	dispatcher := NewDispatcher(RouteMiddleware(table, ""))

	rec := httptest.NewRecorder()
	dispatcher.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/gifts/42", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "Method not allowed")
}

func TestDispatcherSuccessPassthrough(t *testing.T) {
	t.Parallel()

	table := RouteTable{
		{Pattern: "/gifts", Methods: map[string]Handler{
			http.MethodGet: func(ctx context.Context, req Request) (Response, error) {
				return Response{
					Status:  http.StatusOK,
					Headers: map[string]string{"X-Test": "yes"},
					Body:    `[{"id":1}]`,
				}, nil
			},
		}},
	}
	dispatcher := NewDispatcher(RouteMiddleware(table, ""))

	rec := httptest.NewRecorder()
	dispatcher.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gifts", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `[{"id":1}]`, rec.Body.String())
	assert.Equal(t, "yes", rec.Header().Get("X-Test"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestDispatcherRecoversPanics(t *testing.T) {
	t.Parallel()

	table := RouteTable{
		{Pattern: "/boom", Methods: map[string]Handler{
			http.MethodGet: func(ctx context.Context, req Request) (Response, error) {
				panic("handler exploded")
			},
		}},
	}
	dispatcher := NewDispatcher(RouteMiddleware(table, ""))

	rec := httptest.NewRecorder()
	dispatcher.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
	assert.NotContains(t, rec.Body.String(), "exploded")
}

func TestDispatcherUnknownErrorsBecome500(t *testing.T) {
	t.Parallel()

	table := RouteTable{
		{Pattern: "/fail", Methods: map[string]Handler{
			http.MethodGet: func(ctx context.Context, req Request) (Response, error) {
				return Response{}, assert.AnError
			},
		}},
	}
	dispatcher := NewDispatcher(RouteMiddleware(table, ""))

	rec := httptest.NewRecorder()
	dispatcher.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestBuildRequest(t *testing.T) {
	t.Parallel()

	httpReq := httptest.NewRequest(
		http.MethodPost,
		"/api/bff/auth/signin?debug=1",
		strings.NewReader(`{"name":"Bruno"}`),
	)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", "test-agent")

	req, err := buildRequest(httpReq)
	require.NoError(t, err)

	assert.Equal(t, "/api/bff/auth/signin", req.Path)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, `{"name":"Bruno"}`, req.Body)
	assert.Equal(t, "1", req.Query["debug"])

	// Headers are stored lower-cased and read case-insensitively.
	assert.Equal(t, "application/json", req.Header("Content-Type"))
	assert.Equal(t, "test-agent", req.Header("user-agent"))
}

func TestDispatcherMountPrefix(t *testing.T) {
	t.Parallel()

	table := RouteTable{
		{Pattern: "/gifts", Methods: map[string]Handler{http.MethodGet: okHandler("gifts")}},
	}
	dispatcher := NewDispatcher(RouteMiddleware(table, "/api/bff"))

	rec := httptest.NewRecorder()
	dispatcher.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bff/gifts", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
