// Package pathfilter decides which files a content walk may touch.
package pathfilter

import (
	"regexp"
	"strings"

	"github.com/okalvert/stilt/internal/types"
)

// PathFilter filters content paths by ignore pattern and extension.
type PathFilter struct {
	ignoredPatterns   []string
	allowedExtensions []string
}

// New creates a PathFilter with generator defaults plus any extra rules.
// Callers add the configured output and cache directories so a build never
// re-reads its own output.
func New(config *types.PathFilterConfig) *PathFilter {
	pf := &PathFilter{
		ignoredPatterns: []string{
			".git/**",
			".stilt/**",
			"node_modules/**",
			".DS_Store",
			"Thumbs.db",
		},
		allowedExtensions: []string{
			".md",
			".markdown",
		},
	}

	if config != nil {
		pf.ignoredPatterns = append(pf.ignoredPatterns, config.IgnoredPatterns...)
		pf.allowedExtensions = append(pf.allowedExtensions, config.AllowedExtensions...)
	}

	return pf
}

// IsAllowed reports whether a slash-separated relative path passes the
// filter rules. Directory paths are only checked against ignore patterns.
func (pf *PathFilter) IsAllowed(path string) bool {
	normalized := strings.ReplaceAll(path, "\\", "/")

	// Hidden files and directories never count as content.
	for _, segment := range strings.Split(strings.TrimSuffix(normalized, "/"), "/") {
		if strings.HasPrefix(segment, ".") {
			return false
		}
	}

	for _, pattern := range pf.ignoredPatterns {
		if globMatch(pattern, normalized) {
			return false
		}
	}

	if isFile(normalized) {
		lower := strings.ToLower(normalized)
		for _, ext := range pf.allowedExtensions {
			if strings.HasSuffix(lower, ext) {
				return true
			}
		}
		return false
	}

	return true
}

// IsAllowedFile applies the full file rules to a path already known to
// name a file, so extensionless files cannot slip through as directories.
func (pf *PathFilter) IsAllowedFile(path string) bool {
	normalized := strings.ReplaceAll(path, "\\", "/")
	if !pf.IsAllowed(normalized) {
		return false
	}

	lower := strings.ToLower(normalized)
	for _, ext := range pf.allowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// FilterPaths returns only the allowed paths.
func (pf *PathFilter) FilterPaths(paths []string) []string {
	var allowed []string
	for _, path := range paths {
		if pf.IsAllowed(path) {
			allowed = append(allowed, path)
		}
	}
	return allowed
}

// globMatch tests a path against a glob where ** crosses separators and
// * does not.
func globMatch(pattern, path string) bool {
	regexPattern := regexp.QuoteMeta(pattern)
	regexPattern = strings.ReplaceAll(regexPattern, `\*\*`, ".*")
	regexPattern = strings.ReplaceAll(regexPattern, `\*`, "[^/]*")
	regexPattern = strings.ReplaceAll(regexPattern, `\?`, "[^/]")

	re, err := regexp.Compile("^" + regexPattern + "$")
	if err != nil {
		return false
	}
	return re.MatchString(path)
}

// isFile reports whether the last path component looks like a file name.
func isFile(path string) bool {
	if strings.HasSuffix(path, "/") {
		return false
	}
	base := path
	if idx := strings.LastIndex(path, "/"); idx != -1 {
		base = path[idx+1:]
	}
	dot := strings.LastIndex(base, ".")
	return dot > 0 && dot < len(base)-1
}
