package bff

import (
	"context"
	"encoding/json"
	"strings"
)

// Request is the value a handler receives. It is built once per incoming
// HTTP request and treated as immutable: the route middleware attaches path
// parameters by returning a copy, never by mutating the original.
type Request struct {
	Path       string
	Method     string
	Headers    map[string]string
	Query      map[string]string
	PathParams map[string]string
	Body       string
}

// Header returns a header value by case-insensitive name. Headers are stored
// lower-cased, single-valued.
func (r Request) Header(name string) string {
	return r.Headers[strings.ToLower(name)]
}

// WithPathParams returns a copy of the request carrying the extracted path
// parameters. The receiver is left untouched.
func (r Request) WithPathParams(params map[string]string) Request {
	r.PathParams = params
	return r
}

// Response is what a handler produces. The handler is solely responsible for
// its status code and body; the dispatcher only serializes it onto the wire.
type Response struct {
	Status  int
	Headers map[string]string
	Body    string
}

// WithHeader returns a copy of the response with the header set.
func (r Response) WithHeader(name, value string) Response {
	headers := make(map[string]string, len(r.Headers)+1)
	for k, v := range r.Headers {
		headers[k] = v
	}
	headers[name] = value
	r.Headers = headers
	return r
}

// Handler turns a request into an HTTP response. It is the unit the router
// dispatches to.
type Handler func(ctx context.Context, req Request) (Response, error)

// JSON builds a response with a JSON-encoded body.
func JSON(status int, v any) Response {
	body, err := json.Marshal(v)
	if err != nil {
		return Response{
			Status: 500,
			Body:   `{"message":"Internal server error"}`,
		}
	}
	return Response{Status: status, Body: string(body)}
}

// ErrorResponse builds the JSON error body handlers return for their own
// failure branches.
func ErrorResponse(status int, message string) Response {
	return JSON(status, map[string]string{"message": message})
}
