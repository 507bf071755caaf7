package discovery

import (
	"path/filepath"
	"strings"
)

// Filter filters test files by name pattern
type Filter struct {
	pattern string
}

// NewFilter creates a new Filter. An empty pattern matches everything.
func NewFilter(pattern string) *Filter {
	return &Filter{pattern: pattern}
}

// Pattern returns the configured pattern.
func (f *Filter) Pattern() string {
	return f.pattern
}

// Match reports whether the file name of path matches the pattern.
// Supports patterns like "*branch*.cton" or "regalloc"
func (f *Filter) Match(path string) bool {
	pattern := f.pattern
	if pattern == "" {
		return true
	}

	// Get just the filename from the full path
	name := filepath.Base(path)

	// Try to match using filepath.Match (supports * and ? wildcards)
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	// If pattern contains wildcards but filepath.Match didn't match,
	// try a more flexible substring match for patterns like "*branch*"
	if strings.Contains(pattern, "*") {
		hasPart := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			if !strings.Contains(name, part) {
				return false
			}
			hasPart = true
		}
		return hasPart
	}

	// If no wildcards, do a simple contains check
	if !strings.Contains(pattern, "?") {
		return strings.Contains(name, pattern)
	}
	return false
}

// FilterByName returns the paths that match the pattern, keeping their order.
func (f *Filter) FilterByName(tests []string) []string {
	if f.pattern == "" {
		return tests
	}

	var filtered []string
	for _, test := range tests {
		if f.Match(test) {
			filtered = append(filtered, test)
		}
	}
	return filtered
}
