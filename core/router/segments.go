package router

import "strings"

// paramMarker prefixes a path segment that matches any value and captures it
// under the marker-stripped name, e.g. "/users/:id".
const paramMarker = ':'

// splitSegments splits a URL path into its non-empty "/"-delimited segments.
// Leading, trailing, and repeated slashes produce empty tokens which are
// dropped, so "/a//b/" and "a/b" both yield ["a", "b"]. No percent-decoding
// or case folding is performed: callers get exactly what was registered or
// requested, segment-split.
func splitSegments(path string) []string {
	if path == "" {
		return nil
	}

	segments := make([]string, 0, strings.Count(path, "/")+1)
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '/' {
			if i > start {
				segments = append(segments, path[start:i])
			}
			start = i + 1
		}
	}
	return segments
}

// joinPattern concatenates a group prefix and a route path so the combined
// pattern re-normalizes through splitSegments. "/users" + "/:id" and
// "users/" + ":id" both produce "/users/:id".
func joinPattern(prefix, path string) string {
	if prefix == "" {
		return path
	}
	if path == "" {
		return prefix
	}
	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(path, "/")
}

// normalizeMethod canonicalizes an HTTP method name. Registration and
// resolution use the same normalization so "get" and "GET" address the same
// route tree.
func normalizeMethod(method string) string {
	return strings.ToUpper(strings.TrimSpace(method))
}
