package paths

import (
	"path/filepath"
	"sort"
)

// Set is a set of cleaned absolute paths
type Set map[string]struct{}

// NewSet returns a set holding the given paths
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add inserts the cleaned form of p
func (s Set) Add(p string) {
	s[filepath.Clean(p)] = struct{}{}
}

// Has reports whether the cleaned form of p is present
func (s Set) Has(p string) bool {
	_, ok := s[filepath.Clean(p)]
	return ok
}

// Len returns the number of paths
func (s Set) Len() int {
	return len(s)
}

// Difference returns the members of s not in other
func (s Set) Difference(other Set) Set {
	out := NewSet()
	for p := range s {
		if !other.Has(p) {
			out[p] = struct{}{}
		}
	}
	return out
}

// Sorted returns the members in lexical order
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
