package bff

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEmptyChain(t *testing.T) {
	t.Parallel()

	handler := Apply()

	_, err := handler(context.Background(), Request{Path: "/anything"})
	require.Error(t, err)

	var routeErr *Error
	require.ErrorAs(t, err, &routeErr)
	assert.Equal(t, http.StatusNotFound, routeErr.Status)
	assert.Equal(t, "No handler found", routeErr.Message)
}

func TestApplyWrapOrder(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(ctx context.Context, req Request) (Response, error) {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	terminal := func(Handler) Handler {
		return func(ctx context.Context, req Request) (Response, error) {
			order = append(order, "inner")
			return Response{Status: http.StatusOK}, nil
		}
	}

	handler := Apply(tag("first"), tag("second"), terminal)
	_, err := handler(context.Background(), Request{})
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "inner"}, order)
}

func TestRouteMiddlewareDispatch(t *testing.T) {
	t.Parallel()

	var captured Request
	table := RouteTable{
		{Pattern: "/gifts/:id", Methods: map[string]Handler{
			http.MethodGet: func(ctx context.Context, req Request) (Response, error) {
				captured = req
				return Response{Status: http.StatusOK, Body: "gift"}, nil
			},
		}},
	}

	handler := Apply(RouteMiddleware(table, "/api/bff"))

	resp, err := handler(context.Background(), Request{
		Path:   "/api/bff/gifts/42",
		Method: http.MethodGet,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, map[string]string{"id": "42"}, captured.PathParams)
}

func TestRouteMiddlewareDoesNotMutateRequest(t *testing.T) {
	t.Parallel()

	table := RouteTable{
		{Pattern: "/gifts/:id", Methods: map[string]Handler{
			http.MethodGet: okHandler("gift"),
		}},
	}
	handler := Apply(RouteMiddleware(table, ""))

	original := Request{Path: "/gifts/42", Method: http.MethodGet}
	_, err := handler(context.Background(), original)
	require.NoError(t, err)

	// The original request value keeps its zero params; the handler got a copy.
	assert.Nil(t, original.PathParams)
}

func TestRouteMiddlewareRouteNotFound(t *testing.T) {
	t.Parallel()

	handler := Apply(RouteMiddleware(RouteTable{}, ""))

	_, err := handler(context.Background(), Request{Path: "/unknown/path", Method: http.MethodGet})

	var routeErr *Error
	require.ErrorAs(t, err, &routeErr)
	assert.Equal(t, http.StatusNotFound, routeErr.Status)
	assert.Equal(t, "Route not found", routeErr.Message)
}

func TestRouteMiddlewareMethodNotAllowed(t *testing.T) {
	t.Parallel()

	table := RouteTable{
		{Pattern: "/gifts/:id", Methods: map[string]Handler{
			http.MethodGet:  okHandler("get"),
			http.MethodPost: okHandler("post"),
		}},
	}
	handler := Apply(RouteMiddleware(table, ""))

	_, err := handler(context.Background(), Request{Path: "/gifts/42", Method: http.MethodDelete})

	// A matched pattern with a missing method is 405, never 404.
	var routeErr *Error
	require.ErrorAs(t, err, &routeErr)
	assert.Equal(t, http.StatusMethodNotAllowed, routeErr.Status)
	assert.Equal(t, "Method not allowed", routeErr.Message)
}

func TestRequestIDGeneratesWhenAbsent(t *testing.T) {
	t.Parallel()

	var seen string
	probe := func(Handler) Handler {
		return func(ctx context.Context, req Request) (Response, error) {
			seen, _ = RequestIDFromContext(ctx)
			return Response{Status: http.StatusOK}, nil
		}
	}

	handler := Apply(RequestID(), probe)
	_, err := handler(context.Background(), Request{})
	require.NoError(t, err)
	assert.NotEmpty(t, seen)
}

func TestRequestIDHonorsClientHeader(t *testing.T) {
	t.Parallel()

	var seen string
	probe := func(Handler) Handler {
		return func(ctx context.Context, req Request) (Response, error) {
			seen, _ = RequestIDFromContext(ctx)
			return Response{Status: http.StatusOK}, nil
		}
	}

	handler := Apply(RequestID(), probe)
	_, err := handler(context.Background(), Request{
		Headers: map[string]string{"x-request-id": "client-id"},
	})
	require.NoError(t, err)
	assert.Equal(t, "client-id", seen)
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	handler := Apply(CORS("https://example.test"))

	resp, err := handler(context.Background(), Request{Method: http.MethodOptions})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.Status)
	assert.Equal(t, "https://example.test", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "true", resp.Headers["Access-Control-Allow-Credentials"])
}

func TestCORSDecoratesResponses(t *testing.T) {
	t.Parallel()

	inner := func(Handler) Handler {
		return okHandler("ok")
	}
	handler := Apply(CORS("https://example.test"), inner)

	resp, err := handler(context.Background(), Request{Method: http.MethodGet})
	require.NoError(t, err)
	assert.Equal(t, "https://example.test", resp.Headers["Access-Control-Allow-Origin"])
}
