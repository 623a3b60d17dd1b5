// Package clean removes links that point into the repository but are no
// longer named by the manifest. Links are found by scanning the home
// directory, so clean works without any record of past installs.
package clean

import (
	"context"
	"path/filepath"
	"time"

	"go.uber.org/multierr"

	"github.com/arthur-debert/dotlink/pkg/backup"
	"github.com/arthur-debert/dotlink/pkg/discovery"
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/arthur-debert/dotlink/pkg/symlink"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// Options defines the inputs of a clean run
type Options struct {
	FS       types.FS
	Paths    *paths.Paths
	Manifest *types.Manifest
	// BackupRoot receives a copy of every removed link
	BackupRoot string
	// ScanDirs are home subdirectories to scan, discovery.DefaultScanDirs when empty
	ScanDirs []string
	Now      func() time.Time
}

// OrphanResult is the outcome for one orphaned link
type OrphanResult struct {
	Link types.ResolvedLink `json:"link"`
	// RelativeTarget is the link destination relative to the repository
	RelativeTarget string `json:"relative_target"`
	BackupPath     string `json:"backup_path,omitempty"`
	Removed        bool   `json:"removed"`
	Err            error  `json:"-"`
}

// Result is the outcome of a clean run
type Result struct {
	// Managed is every link found pointing into the repository
	Managed []types.ResolvedLink `json:"managed"`
	Orphans []OrphanResult       `json:"orphans"`
}

// RemovedCount returns how many orphans were backed up and removed
func (r *Result) RemovedCount() int {
	n := 0
	for _, o := range r.Orphans {
		if o.Removed {
			n++
		}
	}
	return n
}

// Success is true when every orphan was backed up and removed
func (r *Result) Success() bool {
	return r.RemovedCount() == len(r.Orphans)
}

// Err combines every per-orphan error
func (r *Result) Err() error {
	var err error
	for _, o := range r.Orphans {
		err = multierr.Append(err, o.Err)
	}
	return err
}

// Run discovers managed links, subtracts the manifest's targets and backs
// up then removes what is left, in path order. A failure on one orphan
// does not stop the others.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.clean")
	done := logging.LogOperationStart(logger, "clean")
	defer done()

	managed, err := discovery.Discover(opts.FS, opts.Paths.RepoRoot(), opts.Paths.HomeRoot(), opts.ScanDirs)
	if err != nil {
		return nil, err
	}
	result := &Result{Managed: managed}

	canonicalRepo, err := opts.FS.EvalSymlinks(opts.Paths.RepoRoot())
	if err != nil {
		return result, errors.Wrapf(err, errors.ErrFileAccess, "cannot resolve repository root %s", opts.Paths.RepoRoot())
	}

	unnamed := discovery.LinkSet(managed).Difference(opts.Paths.ConfiguredTargets(opts.Manifest))
	// managed is already in path order
	var orphans []types.ResolvedLink
	for _, link := range managed {
		if unnamed.Has(link.LinkPath) {
			orphans = append(orphans, link)
		}
	}

	logger.Info().
		Int("managed", len(managed)).
		Int("orphans", len(orphans)).
		Msg("orphan scan finished")

	backups := backup.New(opts.FS)
	if opts.Now != nil {
		backups.WithClock(opts.Now)
	}
	linker := symlink.New(opts.FS, backups)

	for _, link := range orphans {
		or := OrphanResult{Link: link, RelativeTarget: link.CanonicalTarget}
		if rel, err := filepath.Rel(canonicalRepo, link.CanonicalTarget); err == nil {
			or.RelativeTarget = rel
		}

		if err := ctx.Err(); err != nil {
			or.Err = errors.Wrap(err, errors.ErrCancelled, "clean interrupted")
			result.Orphans = append(result.Orphans, or)
			continue
		}

		or.BackupPath, or.Err = linker.Unlink(link.LinkPath, opts.BackupRoot)
		or.Removed = or.Err == nil
		if or.Err != nil {
			logger.Warn().Err(or.Err).Str("link", link.LinkPath).Msg("could not remove orphan")
		}
		result.Orphans = append(result.Orphans, or)
	}

	return result, nil
}
