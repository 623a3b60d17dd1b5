package install

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"

	"github.com/arthur-debert/dotlink/pkg/backup"
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/arthur-debert/dotlink/pkg/safety"
	"github.com/arthur-debert/dotlink/pkg/symlink"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// Action is what happened (or would happen) to one entry
type Action string

const (
	ActionAlreadyLinked Action = "already-linked"
	ActionCreated       Action = "created"
	ActionReplaced      Action = "replaced"
	ActionWouldCreate   Action = "would-create"
	ActionWouldReplace  Action = "would-replace"
	ActionSkipped       Action = "skipped"
	ActionFailed        Action = "failed"
)

// Linked reports whether the action leaves (or would leave) the entry linked
func (a Action) Linked() bool {
	switch a {
	case ActionAlreadyLinked, ActionCreated, ActionReplaced, ActionWouldCreate, ActionWouldReplace:
		return true
	}
	return false
}

// Options defines the inputs of an install run
type Options struct {
	FS       types.FS
	Paths    *paths.Paths
	Manifest *types.Manifest
	Gate     *safety.Gate
	// BackupRoot receives whatever install displaces
	BackupRoot string
	DryRun     bool
	// Now overrides the clock used to name backups
	Now func() time.Time
}

// EntryResult is the outcome for one manifest entry
type EntryResult struct {
	Index      int                `json:"index"`
	Entry      types.DotfileEntry `json:"entry"`
	SourcePath string             `json:"source_path"`
	TargetPath string             `json:"target_path"`
	Action     Action             `json:"action"`
	// Replaced names what occupied the target before it was replaced
	Replaced   symlink.Existing `json:"replaced,omitempty"`
	BackupPath string           `json:"backup_path,omitempty"`
	Err        error            `json:"-"`
}

// Result is the outcome of an install run
type Result struct {
	DryRun  bool           `json:"dry_run"`
	Safety  *safety.Report `json:"safety,omitempty"`
	Entries []EntryResult  `json:"entries"`
}

// Linked counts entries that are (or would be) linked
func (r *Result) Linked() int {
	n := 0
	for _, e := range r.Entries {
		if e.Action.Linked() {
			n++
		}
	}
	return n
}

// Count returns how many entries ended with action
func (r *Result) Count(action Action) int {
	n := 0
	for _, e := range r.Entries {
		if e.Action == action {
			n++
		}
	}
	return n
}

// Success is true when every entry is (or in a dry run would be) linked
func (r *Result) Success() bool {
	return r.Linked() == len(r.Entries)
}

// Err combines every per-entry error
func (r *Result) Err() error {
	var err error
	for _, e := range r.Entries {
		err = multierr.Append(err, e.Err)
	}
	return err
}

// Run installs every manifest entry in order. The whole manifest passes the
// safety gate first; a forbidden or declined entry aborts before anything is
// touched and is returned as the error. After that, problems are per entry:
// they are recorded on the entry and the run continues.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.install")
	done := logging.LogOperationStart(logger, "install")
	defer done()

	result := &Result{DryRun: opts.DryRun}

	report, err := opts.Gate.Check(ctx, opts.Manifest.Entries, opts.DryRun)
	result.Safety = report
	if err != nil {
		return result, err
	}

	backups := backup.New(opts.FS)
	if opts.Now != nil {
		backups.WithClock(opts.Now)
	}
	linker := symlink.New(opts.FS, backups)

	for i, entry := range opts.Manifest.Entries {
		er := installEntry(opts, linker, i, entry)
		result.Entries = append(result.Entries, er)

		ev := logger.Info()
		if er.Err != nil {
			ev = logger.Warn().Err(er.Err)
		}
		ev.Int("index", i).
			Str("target", er.TargetPath).
			Str("action", string(er.Action)).
			Msg("entry processed")
	}

	if err := result.Err(); err != nil {
		logger.Debug().Int("problems", len(multierr.Errors(err))).Msg("install finished with problems")
	}
	return result, nil
}

func installEntry(opts Options, linker *symlink.Manager, i int, entry types.DotfileEntry) EntryResult {
	er := EntryResult{
		Index:      i,
		Entry:      entry,
		SourcePath: opts.Paths.SourcePath(entry),
		TargetPath: opts.Paths.TargetPath(entry),
	}

	srcInfo, err := opts.FS.Stat(er.SourcePath)
	if err != nil {
		er.Action = ActionSkipped
		if os.IsNotExist(err) {
			er.Err = errors.Newf(errors.ErrSourceMissing, "source not found: %s", er.SourcePath)
		} else {
			er.Err = errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect source %s", er.SourcePath)
		}
		return er
	}
	if !matchesType(srcInfo, entry.Type) {
		er.Action = ActionSkipped
		er.Err = errors.Newf(errors.ErrTypeMismatch, "source %s is not a %s", er.SourcePath, entry.Type)
		return er
	}

	if paths.LinksTo(opts.FS, er.TargetPath, er.SourcePath) {
		er.Action = ActionAlreadyLinked
		return er
	}

	// A link made by an earlier entry can route the target back into the
	// repository, where replacing it would destroy a source.
	if resolved, inRepo := targetInRepo(opts, er.TargetPath); inRepo {
		er.Action = ActionSkipped
		er.Err = errors.Newf(errors.ErrTargetInRepo, "target %s resolves to %s inside the repository", er.TargetPath, resolved).
			WithDetail("resolved", resolved)
		return er
	}

	_, lerr := opts.FS.Lstat(er.TargetPath)
	exists := lerr == nil

	if opts.DryRun {
		er.Action = ActionWouldCreate
		if exists {
			er.Action = ActionWouldReplace
		}
		return er
	}

	res, err := linker.Link(er.SourcePath, er.TargetPath, opts.BackupRoot)
	if res != nil {
		er.Replaced = res.Replaced
		er.BackupPath = res.BackupPath
	}
	if err != nil {
		er.Action = ActionFailed
		er.Err = err
		return er
	}

	er.Action = ActionCreated
	if res.Replaced != symlink.ExistingNone {
		er.Action = ActionReplaced
	}
	return er
}

// targetInRepo resolves the directories above target and reports whether
// the result is inside the repository or contains it
func targetInRepo(opts Options, target string) (string, bool) {
	repo, err := paths.Canonical(opts.FS, opts.Paths.RepoRoot())
	if err != nil {
		repo = filepath.Clean(opts.Paths.RepoRoot())
	}
	resolved := paths.ResolveParents(opts.FS, target)
	return resolved, paths.Overlaps(resolved, repo)
}

// matchesType follows symlinks inside the repository, so a source that is
// itself a link to a file counts as a file
func matchesType(info os.FileInfo, want types.EntryType) bool {
	switch want {
	case types.EntryFile:
		return info.Mode().IsRegular()
	case types.EntryDirectory:
		return info.IsDir()
	}
	return false
}
