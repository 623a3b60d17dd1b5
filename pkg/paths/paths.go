package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// Environment variable names
const (
	// EnvDotfilesRoot is the primary environment variable for the repository location
	EnvDotfilesRoot = "DOTFILES_ROOT"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Paths holds the two roots every operation works between
type Paths struct {
	repoRoot     string
	homeRoot     string
	usedFallback bool
}

// New creates a Paths instance. An empty repoRoot is discovered from the
// environment, an empty homeRoot is the current user's home directory.
func New(repoRoot, homeRoot string) (*Paths, error) {
	p := &Paths{}

	if repoRoot == "" {
		root, usedFallback, err := findRepoRoot()
		if err != nil {
			return nil, err
		}
		p.repoRoot = root
		p.usedFallback = usedFallback
	} else {
		p.repoRoot = expandHome(repoRoot)
	}

	absRoot, err := filepath.Abs(p.repoRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRepoRoot, "failed to get absolute path for repository root")
	}
	p.repoRoot = absRoot

	if homeRoot == "" {
		homeRoot, err = GetHomeDirectory()
		if err != nil {
			return nil, err
		}
	}
	absHome, err := filepath.Abs(expandHome(homeRoot))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for home directory")
	}
	p.homeRoot = absHome

	return p, nil
}

// findRepoRoot determines the repository root using the following priority:
// 1. DOTFILES_ROOT environment variable (if set)
// 2. Git repository root (found via 'git rev-parse --show-toplevel')
// 3. Current working directory (fallback)
func findRepoRoot() (string, bool, error) {
	logger := logging.GetLogger("paths")

	if root := os.Getenv(EnvDotfilesRoot); root != "" {
		return expandHome(root), false, nil
	}

	gitRoot, err := findGitRoot()
	if err == nil && gitRoot != "" {
		logger.Debug().Str("root", gitRoot).Msg("using git top-level as repository root")
		return gitRoot, false, nil
	}
	logger.Trace().Err(err).Msg("git root lookup failed")

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrRepoRoot, "failed to get current directory")
	}

	return cwd, true, nil
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}

	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrRepoRoot, "git root is empty")
	}
	return gitRoot, nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := GetHomeDirectory()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~user is left alone
	return path
}

// GetHomeDirectory returns the user's home directory with proper error handling
func GetHomeDirectory() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get home directory")
	}
	return homeDir, nil
}

// RepoRoot returns the absolute repository root
func (p *Paths) RepoRoot() string {
	return p.repoRoot
}

// HomeRoot returns the absolute home directory links are created under
func (p *Paths) HomeRoot() string {
	return p.homeRoot
}

// UsedFallback returns true if the current working directory was used as fallback
func (p *Paths) UsedFallback() bool {
	return p.usedFallback
}

// SourcePath returns the absolute path of an entry's source
func (p *Paths) SourcePath(entry types.DotfileEntry) string {
	return filepath.Join(p.repoRoot, entry.Source)
}

// TargetPath returns the absolute path of an entry's target. Every
// component that compares targets derives them through here.
func (p *Paths) TargetPath(entry types.DotfileEntry) string {
	return filepath.Join(p.homeRoot, entry.Target)
}

// InRepo resolves a possibly relative path against the repository root
func (p *Paths) InRepo(path string) string {
	path = expandHome(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.repoRoot, path)
}

// BackupRoot returns the directory backups of the given kind are written to
func (p *Paths) BackupRoot(backupDir, kind string) string {
	return filepath.Join(p.InRepo(backupDir), kind)
}

// ConfiguredTargets returns the absolute target of every manifest entry
func (p *Paths) ConfiguredTargets(m *types.Manifest) Set {
	set := NewSet()
	if m == nil {
		return set
	}
	for _, e := range m.Entries {
		set.Add(p.TargetPath(e))
	}
	return set
}
