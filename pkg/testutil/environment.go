package testutil

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotlink/pkg/filesystem"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// TestEnvironment is an isolated repository and home directory on the real
// filesystem
type TestEnvironment struct {
	Root     string
	RepoRoot string
	HomeDir  string
	StateDir string

	FS    *CountingFS
	Paths *paths.Paths

	t *testing.T
}

// NewTestEnvironment creates the directories and points HOME,
// DOTFILES_ROOT and XDG_STATE_HOME at them for the duration of the test
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	root := t.TempDir()
	// macOS temp dirs live behind /var -> /private/var
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	env := &TestEnvironment{
		Root:     root,
		RepoRoot: filepath.Join(root, "dotfiles"),
		HomeDir:  filepath.Join(root, "home"),
		StateDir: filepath.Join(root, "state"),
		FS:       NewCountingFS(filesystem.NewOS()),
		t:        t,
	}

	for _, dir := range []string{env.RepoRoot, env.HomeDir, env.StateDir} {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}

	t.Setenv(paths.EnvDotfilesRoot, env.RepoRoot)
	t.Setenv(paths.EnvHome, env.HomeDir)
	t.Setenv("XDG_STATE_HOME", env.StateDir)

	p, err := paths.New(env.RepoRoot, env.HomeDir)
	require.NoError(t, err)
	env.Paths = p

	return env
}

// RepoFile writes a file under the repository and returns its path
func (env *TestEnvironment) RepoFile(rel, content string) string {
	env.t.Helper()
	return writeFile(env.t, filepath.Join(env.RepoRoot, rel), content)
}

// RepoDir creates a directory under the repository and returns its path
func (env *TestEnvironment) RepoDir(rel string) string {
	env.t.Helper()
	path := filepath.Join(env.RepoRoot, rel)
	require.NoError(env.t, os.MkdirAll(path, 0755))
	return path
}

// HomeFile writes a file under home and returns its path
func (env *TestEnvironment) HomeFile(rel, content string) string {
	env.t.Helper()
	return writeFile(env.t, filepath.Join(env.HomeDir, rel), content)
}

// HomeDirAt creates a directory under home and returns its path
func (env *TestEnvironment) HomeDirAt(rel string) string {
	env.t.Helper()
	path := filepath.Join(env.HomeDir, rel)
	require.NoError(env.t, os.MkdirAll(path, 0755))
	return path
}

// HomeSymlink creates a link under home pointing at dest
func (env *TestEnvironment) HomeSymlink(rel, dest string) string {
	env.t.Helper()
	path := filepath.Join(env.HomeDir, rel)
	require.NoError(env.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(env.t, os.Symlink(dest, path))
	return path
}

// Manifest builds an in-memory manifest
func (env *TestEnvironment) Manifest(entries ...types.DotfileEntry) *types.Manifest {
	return &types.Manifest{Entries: entries}
}

// WriteManifest writes entries as dot-config.json in the repository
func (env *TestEnvironment) WriteManifest(entries ...types.DotfileEntry) string {
	env.t.Helper()
	if entries == nil {
		entries = []types.DotfileEntry{}
	}
	data, err := json.MarshalIndent(map[string]interface{}{"dotfiles": entries}, "", "  ")
	require.NoError(env.t, err)
	return writeFile(env.t, filepath.Join(env.RepoRoot, "dot-config.json"), string(data))
}

// BackupRoot returns the default backup directory of the given kind
func (env *TestEnvironment) BackupRoot(kind string) string {
	return filepath.Join(env.RepoRoot, "backups", kind)
}

// Snapshot describes every path under root without following links:
// "dir", "file:<content>" or "link:<destination>"
func (env *TestEnvironment) Snapshot(root string) map[string]string {
	env.t.Helper()
	return Snapshot(env.t, root)
}

// Snapshot describes every path under root without following links
func Snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		switch {
		case d.Type()&fs.ModeSymlink != 0:
			dest, err := os.Readlink(path)
			if err != nil {
				return err
			}
			out[rel] = "link:" + dest
		case d.IsDir():
			out[rel] = "dir"
		default:
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			out[rel] = "file:" + string(data)
		}
		return nil
	})
	require.NoError(t, err)
	return out
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
