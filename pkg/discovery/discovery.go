// Package discovery finds the links in a home directory that point into the
// repository, by looking at the filesystem rather than at any record of
// what was installed.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// DefaultScanDirs are the home subdirectories scanned when none are configured
var DefaultScanDirs = []string{".", ".config", "temp", ".local/share", ".local/bin"}

// Discover returns every direct child of the scanned directories that is a
// symlink resolving to repoRoot or somewhere beneath it, sorted by link
// path. Directories that are missing or unreadable are skipped, as are
// links that cannot be resolved.
func Discover(fsys types.ReadFS, repoRoot, homeRoot string, scanDirs []string) ([]types.ResolvedLink, error) {
	logger := logging.GetLogger("discovery")

	canonicalRepo, err := fsys.EvalSymlinks(repoRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot resolve repository root %s", repoRoot)
	}

	if len(scanDirs) == 0 {
		scanDirs = DefaultScanDirs
	}

	seen := paths.NewSet()
	var found []types.ResolvedLink

	for _, dir := range scanDirs {
		location := filepath.Join(homeRoot, dir)

		entries, err := fsys.ReadDir(location)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Trace().Str("dir", location).Msg("scan location does not exist")
			} else {
				logger.Warn().Err(err).Str("dir", location).Msg("skipping unreadable scan location")
			}
			continue
		}

		for _, entry := range entries {
			if entry.Type()&fs.ModeSymlink == 0 {
				continue
			}
			linkPath := filepath.Join(location, entry.Name())
			if seen.Has(linkPath) {
				continue
			}

			resolved, err := paths.Resolve(fsys, linkPath)
			if err != nil {
				logger.Debug().Err(err).Str("link", linkPath).Msg("ignoring unresolvable link")
				continue
			}
			if !paths.ContainsPath(canonicalRepo, resolved.CanonicalTarget) {
				continue
			}

			seen.Add(linkPath)
			found = append(found, resolved)
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].LinkPath < found[j].LinkPath })
	logger.Debug().Int("managed", len(found)).Msg("discovery finished")
	return found, nil
}

// DiscoverManaged returns the set of managed link paths
func DiscoverManaged(fsys types.ReadFS, repoRoot, homeRoot string, scanDirs []string) (paths.Set, error) {
	links, err := Discover(fsys, repoRoot, homeRoot, scanDirs)
	if err != nil {
		return nil, err
	}
	return LinkSet(links), nil
}

// LinkSet returns the link paths of links
func LinkSet(links []types.ResolvedLink) paths.Set {
	set := paths.NewSet()
	for _, l := range links {
		set.Add(l.LinkPath)
	}
	return set
}
