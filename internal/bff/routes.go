package bff

import "strings"

// Route associates a path pattern with one handler per HTTP method. A method
// absent from the map means "method not allowed", not "not found".
type Route struct {
	Pattern string
	Methods map[string]Handler
}

// RouteTable is the ordered set of routes. Order matters: patterns are tried
// in registration order and the first structural match wins.
type RouteTable []Route

// FindMatchingRoute compares the path against every pattern in table order.
// A pattern matches only when it has the same number of segments as the path
// and every literal segment is equal; `:`-prefixed segments match any value.
func (t RouteTable) FindMatchingRoute(path string) (Route, map[string]string, bool) {
	pathParts := strings.Split(path, "/")

	for _, route := range t {
		patternParts := strings.Split(route.Pattern, "/")
		if len(patternParts) != len(pathParts) {
			continue
		}

		matched := true
		for i, part := range patternParts {
			if strings.HasPrefix(part, ":") {
				continue
			}
			if part != pathParts[i] {
				matched = false
				break
			}
		}

		if matched {
			return route, ExtractPathParams(route.Pattern, path), true
		}
	}

	return Route{}, nil, false
}
