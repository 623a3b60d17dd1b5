package paths

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/dotlink/pkg/types"
)

// IsSymlink reports whether path itself is a symlink, without following it
func IsSymlink(fsys types.ReadFS, path string) bool {
	info, err := fsys.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&fs.ModeSymlink != 0
}

// Canonical fully resolves path. It fails for broken links and missing paths.
func Canonical(fsys types.ReadFS, path string) (string, error) {
	return fsys.EvalSymlinks(path)
}

// LinksTo reports whether link is a symlink whose canonical destination is
// the canonical form of source
func LinksTo(fsys types.ReadFS, link, source string) bool {
	if !IsSymlink(fsys, link) {
		return false
	}
	got, err := Canonical(fsys, link)
	if err != nil {
		return false
	}
	want, err := Canonical(fsys, source)
	if err != nil {
		return false
	}
	return got == want
}

// Resolve returns link paired with its canonical destination
func Resolve(fsys types.ReadFS, link string) (types.ResolvedLink, error) {
	target, err := Canonical(fsys, link)
	if err != nil {
		return types.ResolvedLink{}, err
	}
	return types.ResolvedLink{LinkPath: link, CanonicalTarget: target}, nil
}

// ResolveParents resolves the deepest existing ancestor of path and joins
// the remaining elements back on. The last element is never followed, so a
// link keeps its own name.
func ResolveParents(fsys types.ReadFS, path string) string {
	path = filepath.Clean(path)
	dir, rest := filepath.Dir(path), filepath.Base(path)
	for {
		if resolved, err := Canonical(fsys, dir); err == nil {
			return filepath.Join(resolved, rest)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return path
		}
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent
	}
}

// Overlaps reports whether a and b are the same path or one contains the other
func Overlaps(a, b string) bool {
	return ContainsPath(a, b) || ContainsPath(b, a)
}
