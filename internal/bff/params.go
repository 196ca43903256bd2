package bff

import "strings"

// ExtractPathParams maps every `:name` segment of the route pattern to the
// literal at the same position in the actual path. Both strings are split on
// "/" and compared positionally, so a leading slash must be present on both
// or on neither.
func ExtractPathParams(routePattern, actualPath string) map[string]string {
	params := map[string]string{}
	patternParts := strings.Split(routePattern, "/")
	pathParts := strings.Split(actualPath, "/")

	for i, part := range patternParts {
		if !strings.HasPrefix(part, ":") {
			continue
		}
		if i >= len(pathParts) {
			continue
		}
		params[strings.TrimPrefix(part, ":")] = pathParts[i]
	}

	return params
}
