package search

import (
	"regexp"
	"strings"
)

// CompileQuery compiles the user's query for client-side highlighting.
// The server receives the query untouched; this only has to find the same
// hits inside the lines it returns.
func CompileQuery(query string, ignoreCase bool) (*regexp.Regexp, error) {
	pattern := strings.TrimSpace(query)
	if ignoreCase {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}
