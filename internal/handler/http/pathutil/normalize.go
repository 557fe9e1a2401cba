// Package pathutil normalizes request paths into low-cardinality metric labels.
package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns maps dynamic routes to their templates.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/download/[^/]+$`), Template: "/download/:filename"},
}

// knownPaths are the static routes reported as-is.
var knownPaths = map[string]bool{
	"/":          true,
	"/summarize": true,
	"/health":    true,
	"/ready":     true,
	"/live":      true,
	"/metrics":   true,
}

// Unmatched is the label used for paths that match no route.
const Unmatched = "/other"

// NormalizePath converts a request path into a metrics label.
//
//	NormalizePath("/download/summary.txt")  // "/download/:filename"
//	NormalizePath("/summarize/")            // "/summarize"
//	NormalizePath("/wp-admin.php")          // "/other"
//
// Unknown paths collapse into Unmatched so scanners cannot inflate label cardinality.
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if knownPaths[path] {
		return path
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return Unmatched
}

// GetExpectedCardinality returns the number of distinct labels NormalizePath can produce.
func GetExpectedCardinality() int {
	return len(knownPaths) + len(pathPatterns) + 1
}
