package display

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotlink/pkg/commands"
	"github.com/arthur-debert/dotlink/pkg/commands/clean"
	"github.com/arthur-debert/dotlink/pkg/commands/install"
	"github.com/arthur-debert/dotlink/pkg/commands/status"
	"github.com/arthur-debert/dotlink/pkg/symlink"
)

// FromDispatch converts whichever command result r carries
func FromDispatch(r *commands.DispatchResult) *Result {
	var out *Result
	switch {
	case r.Install != nil:
		out = FromInstall(r.Install, r.Header.HomeRoot, r.Header.RepoRoot)
	case r.Status != nil:
		out = FromStatus(r.Status, r.Header.HomeRoot, r.Header.RepoRoot)
	case r.Clean != nil:
		out = FromClean(r.Clean, r.Header.HomeRoot)
	default:
		out = &Result{Command: string(r.Command)}
	}
	out.Header = &Header{
		Repository: r.Header.RepoRoot,
		Config:     r.Header.ManifestPath,
		Home:       r.Header.HomeRoot,
		Backups:    r.Header.BackupRoot,
		Fallback:   r.Header.UsedFallback,
	}
	return out
}

// FromInstall converts an install result
func FromInstall(r *install.Result, home, repo string) *Result {
	out := &Result{Command: "install", DryRun: r.DryRun, Success: r.Success()}

	for _, e := range r.Entries {
		row := Row{
			Action: string(e.Action),
			Target: HomeRelative(e.TargetPath, home),
			Source: RepoRelative(e.SourcePath, repo),
		}
		switch e.Action {
		case install.ActionAlreadyLinked:
			row.Status, row.Symbol, row.Detail = "Success", SymbolOK, "already linked"
		case install.ActionCreated:
			row.Status, row.Symbol, row.Detail = "Success", SymbolOK, "linked"
		case install.ActionReplaced:
			row.Status, row.Symbol = "Success", SymbolOK
			row.Detail = fmt.Sprintf("linked, replaced %s (backup: %s)", replacedName(e.Replaced), filepath.Base(e.BackupPath))
		case install.ActionWouldCreate:
			row.Status, row.Symbol, row.Detail = "Info", SymbolPending, "would link"
		case install.ActionWouldReplace:
			row.Status, row.Symbol, row.Detail = "Info", SymbolPending, "would back up and replace"
		case install.ActionSkipped:
			row.Status, row.Symbol, row.Detail = "Warning", SymbolSkip, "skipped"
		default:
			row.Status, row.Symbol, row.Detail = "Error", SymbolFail, "failed"
		}
		if e.Err != nil {
			row.Error = ErrorText(e.Err)
		}
		out.Rows = append(out.Rows, row)
	}

	if len(r.Entries) == 0 && r.Safety != nil && len(r.Safety.Findings) == 0 {
		out.Empty = "No dotfiles in config"
	}

	if r.DryRun {
		out.Summary = fmt.Sprintf("Dry run: %d would be linked, %d would be replaced, %d already linked, %d skipped",
			r.Count(install.ActionWouldCreate), r.Count(install.ActionWouldReplace),
			r.Count(install.ActionAlreadyLinked), r.Count(install.ActionSkipped))
		if pending := r.Safety.NeedsConfirmation(); len(pending) > 0 {
			for _, f := range pending {
				out.Notes = append(out.Notes, fmt.Sprintf("~/%s needs confirmation: %s", f.Entry.Target, f.Classification.Reason))
			}
		}
		return out
	}

	out.Summary = fmt.Sprintf("Summary: Linked %d/%d", r.Linked(), len(r.Entries))
	if n := r.Count(install.ActionReplaced); n > 0 {
		out.Notes = append(out.Notes, fmt.Sprintf("%d existing item(s) backed up before being replaced", n))
	}
	return out
}

// FromStatus converts a status result
func FromStatus(r *status.Result, home, repo string) *Result {
	out := &Result{Command: "status", Success: r.AllCorrect()}

	for _, e := range r.Entries {
		row := Row{
			Target: HomeRelative(e.TargetPath, home),
			Source: RepoRelative(e.SourcePath, repo),
		}
		switch {
		case e.Correct():
			row.Status, row.Symbol, row.Action, row.Detail = "Success", SymbolOK, "linked", "linked"
		case !e.SourceExists:
			row.Status, row.Symbol, row.Action, row.Detail = "Error", SymbolFail, "source-missing", "source missing"
		case e.IsSymlink && !e.TargetExists:
			row.Status, row.Symbol, row.Action, row.Detail = "Error", SymbolFail, "broken-link", "broken symlink"
		case !e.TargetExists:
			row.Status, row.Symbol, row.Action, row.Detail = "Warning", SymbolSkip, "not-linked", "not linked"
		case !e.IsSymlink:
			row.Status, row.Symbol, row.Action, row.Detail = "Warning", SymbolFail, "not-a-symlink", "exists but is not a symlink"
		default:
			row.Status, row.Symbol, row.Action, row.Detail = "Warning", SymbolFail, "wrong-target", "points somewhere else"
		}
		out.Rows = append(out.Rows, row)
	}

	if len(r.Entries) == 0 {
		out.Empty = "No dotfiles in config"
	}
	out.Summary = fmt.Sprintf("Summary: %d/%d correctly linked", r.CorrectCount(), len(r.Entries))
	return out
}

// FromClean converts a clean result
func FromClean(r *clean.Result, home string) *Result {
	out := &Result{
		Command: "clean",
		Success: r.Success(),
		Intro:   fmt.Sprintf("Found %d managed symlinks", len(r.Managed)),
	}

	for _, o := range r.Orphans {
		row := Row{
			Target: HomeRelative(o.Link.LinkPath, home),
			Source: o.RelativeTarget,
		}
		if o.Removed {
			row.Status, row.Symbol, row.Action = "Success", SymbolOK, "removed"
			row.Detail = "removed (backup: " + filepath.Base(o.BackupPath) + ")"
		} else {
			row.Status, row.Symbol, row.Action, row.Detail = "Error", SymbolFail, "failed", "not removed"
			row.Error = ErrorText(o.Err)
		}
		out.Rows = append(out.Rows, row)
	}

	if len(r.Orphans) == 0 {
		out.Empty = "No orphaned symlinks found"
	}
	out.Summary = fmt.Sprintf("Summary: Removed %d/%d", r.RemovedCount(), len(r.Orphans))
	return out
}

// HomeRelative shows path as ~/rel when it lies under home
func HomeRelative(path, home string) string {
	if home == "" {
		return path
	}
	rel, err := filepath.Rel(home, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	if rel == "." {
		return "~"
	}
	return "~/" + filepath.ToSlash(rel)
}

// RepoRelative shows path relative to the repository when it lies inside it
func RepoRelative(path, repo string) string {
	if repo == "" {
		return path
	}
	rel, err := filepath.Rel(repo, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

func replacedName(e symlink.Existing) string {
	if e == symlink.ExistingNone {
		return "existing item"
	}
	return string(e)
}
