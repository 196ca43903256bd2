package bff

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brgarcias/apartment-gift-list/internal/logger"
)

// Middleware wraps a handler with cross-cutting behavior. It receives the
// next handler in the chain and may delegate to it or short-circuit.
type Middleware func(next Handler) Handler

// Apply composes the middlewares right to left around a terminal handler
// that unconditionally fails with 404. An empty chain, or a chain that never
// calls next, still yields a well-defined response.
func Apply(middlewares ...Middleware) Handler {
	handler := Handler(func(ctx context.Context, req Request) (Response, error) {
		return Response{}, NewError(http.StatusNotFound, "No handler found")
	})

	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	return handler
}

// RouteMiddleware resolves requests against the route table. It strips the
// function mount prefix, matches the remaining path, injects the extracted
// parameters and invokes the resolved handler. It never calls next: an
// unmatched request fails right here.
func RouteMiddleware(routes RouteTable, mountPath string) Middleware {
	return func(Handler) Handler {
		return func(ctx context.Context, req Request) (Response, error) {
			path := strings.TrimPrefix(req.Path, mountPath)

			route, params, ok := routes.FindMatchingRoute(path)
			if !ok {
				return Response{}, NewError(http.StatusNotFound, "Route not found")
			}

			handler, ok := route.Methods[req.Method]
			if !ok {
				return Response{}, NewError(http.StatusMethodNotAllowed, "Method not allowed")
			}

			return handler(ctx, req.WithPathParams(params))
		}
	}
}

// unexported, collision-proof context key
type requestIDContextKeyType struct{}

var requestIDKey = requestIDContextKeyType{}

// RequestIDFromContext extracts the request ID placed by RequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}

// RequestID tags every request with an identifier, honoring one supplied by
// the client in x-request-id.
func RequestID() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req Request) (Response, error) {
			id := req.Header("x-request-id")
			if id == "" {
				id = uuid.NewString()
			}
			return next(context.WithValue(ctx, requestIDKey, id), req)
		}
	}
}

// RequestLogging logs one line per handled request.
func RequestLogging() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req Request) (Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			fields := map[string]any{
				"method":      req.Method,
				"path":        req.Path,
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if id, ok := RequestIDFromContext(ctx); ok {
				fields["request_id"] = id
			}

			if err != nil {
				fields["error"] = err.Error()
				logger.Warn("request failed", fields)
				return resp, err
			}

			fields["status"] = resp.Status
			logger.Info("request handled", fields)
			return resp, nil
		}
	}
}

// CORS answers preflight requests and decorates every response with the
// configured origin. Credentials are always allowed because the session
// travels in a cookie.
func CORS(origin string) Middleware {
	if origin == "" {
		origin = "*"
	}
	return func(next Handler) Handler {
		return func(ctx context.Context, req Request) (Response, error) {
			if req.Method == http.MethodOptions {
				return Response{
					Status: http.StatusNoContent,
					Headers: map[string]string{
						"Access-Control-Allow-Origin":      origin,
						"Access-Control-Allow-Credentials": "true",
						"Access-Control-Allow-Methods":     "GET, POST, PATCH, DELETE, OPTIONS",
						"Access-Control-Allow-Headers":     "Content-Type, X-Request-Id",
					},
				}, nil
			}

			resp, err := next(ctx, req)
			if err != nil {
				return resp, err
			}

			resp = resp.WithHeader("Access-Control-Allow-Origin", origin)
			resp = resp.WithHeader("Access-Control-Allow-Credentials", "true")
			return resp, nil
		}
	}
}
