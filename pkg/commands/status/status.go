// Package status reports, for every manifest entry, whether its target is
// a symlink resolving to its source. It only reads the filesystem.
package status

import (
	"io/fs"

	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// Options defines the inputs of a status check
type Options struct {
	FS       types.ReadFS
	Paths    *paths.Paths
	Manifest *types.Manifest
}

// EntryStatus is the observed state of one manifest entry
type EntryStatus struct {
	Index      int                `json:"index"`
	Entry      types.DotfileEntry `json:"entry"`
	SourcePath string             `json:"source_path"`
	TargetPath string             `json:"target_path"`

	SourceExists bool `json:"source_exists"`
	// TargetExists follows links, so a dangling link reports false
	TargetExists bool `json:"target_exists"`
	IsSymlink    bool `json:"is_symlink"`
	// IsCorrect means the target resolves to the same canonical path as the source
	IsCorrect bool `json:"is_correct"`
}

// Correct reports whether the entry is installed
func (s EntryStatus) Correct() bool {
	return s.SourceExists && s.TargetExists && s.IsSymlink && s.IsCorrect
}

// Result holds one status per manifest entry, in manifest order
type Result struct {
	Entries []EntryStatus `json:"entries"`
}

// AllCorrect is true when every entry is installed
func (r *Result) AllCorrect() bool {
	for _, e := range r.Entries {
		if !e.Correct() {
			return false
		}
	}
	return true
}

// CorrectCount returns how many entries are installed
func (r *Result) CorrectCount() int {
	n := 0
	for _, e := range r.Entries {
		if e.Correct() {
			n++
		}
	}
	return n
}

// Run inspects every entry
func Run(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.status")
	done := logging.LogOperationStart(logger, "status")
	defer done()

	result := &Result{Entries: make([]EntryStatus, 0, len(opts.Manifest.Entries))}
	for i, entry := range opts.Manifest.Entries {
		s := inspect(opts, i, entry)
		logger.Debug().
			Int("index", i).
			Str("target", s.TargetPath).
			Bool("correct", s.Correct()).
			Msg("entry inspected")
		result.Entries = append(result.Entries, s)
	}
	return result, nil
}

func inspect(opts Options, i int, entry types.DotfileEntry) EntryStatus {
	s := EntryStatus{
		Index:      i,
		Entry:      entry,
		SourcePath: opts.Paths.SourcePath(entry),
		TargetPath: opts.Paths.TargetPath(entry),
	}

	_, err := opts.FS.Stat(s.SourcePath)
	s.SourceExists = err == nil

	_, err = opts.FS.Stat(s.TargetPath)
	s.TargetExists = err == nil

	if info, err := opts.FS.Lstat(s.TargetPath); err == nil {
		s.IsSymlink = info.Mode()&fs.ModeSymlink != 0
	}

	if s.IsSymlink && s.TargetExists && s.SourceExists {
		s.IsCorrect = paths.LinksTo(opts.FS, s.TargetPath, s.SourcePath)
	}
	return s
}
