package paths

import (
	"path/filepath"
	"strings"
)

// ContainsPath checks if child is parent or lies beneath it. Both paths
// are cleaned but not resolved.
func ContainsPath(parent, child string) bool {
	parent = filepath.Clean(parent)
	child = filepath.Clean(child)

	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// HasTraversal reports whether any raw segment of p is "..". The path is
// not cleaned first, so "a/../b" counts.
func HasTraversal(p string) bool {
	for _, seg := range Segments(p) {
		if seg == ".." {
			return true
		}
	}
	return false
}

// IsAbsolute reports whether p is absolute on this platform or starts with a
// separator of either kind
func IsAbsolute(p string) bool {
	if filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return true
	}
	return strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\`)
}

// Segments splits p on both separator styles, dropping empty segments
func Segments(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool {
		return r == '/' || r == '\\'
	})
}
