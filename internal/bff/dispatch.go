package bff

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/brgarcias/apartment-gift-list/internal/logger"
)

// Dispatcher adapts the composed middleware chain to net/http. It is the one
// place where structured routing errors become HTTP responses; any other
// error or panic escaping the chain turns into a generic 500 so callers never
// see a raw failure.
type Dispatcher struct {
	handler Handler
}

func NewDispatcher(middlewares ...Middleware) *Dispatcher {
	return &Dispatcher{handler: Apply(middlewares...)}
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := buildRequest(r)
	if err != nil {
		logger.Error("failed to read request", map[string]any{
			"path":  r.URL.Path,
			"error": err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp, err := d.invoke(r, req)
	if err != nil {
		var routeErr *Error
		if errors.As(err, &routeErr) {
			writeError(w, routeErr.Status, routeErr.Message)
			return
		}

		logger.Error("unhandled dispatch error", map[string]any{
			"method": req.Method,
			"path":   req.Path,
			"error":  err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	for name, value := range resp.Headers {
		w.Header().Set(name, value)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(resp.Status)
	_, _ = io.WriteString(w, resp.Body)
}

func (d *Dispatcher) invoke(r *http.Request, req Request) (resp Response, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in handler: %v", rec)
		}
	}()
	return d.handler(r.Context(), req)
}

func buildRequest(r *http.Request) (Request, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return Request{}, err
	}

	headers := make(map[string]string, len(r.Header))
	for name, values := range r.Header {
		if len(values) > 0 {
			headers[strings.ToLower(name)] = values[0]
		}
	}

	query := map[string]string{}
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			query[name] = values[0]
		}
	}

	return Request{
		Path:    r.URL.Path,
		Method:  r.Method,
		Headers: headers,
		Query:   query,
		Body:    string(body),
	}, nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `{"message":%q}`, message)
}
