package paths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotlink/pkg/filesystem"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinksTo(t *testing.T) {
	dir := t.TempDir()
	fsys := filesystem.NewOS()

	src := filepath.Join(dir, "src")
	other := filepath.Join(dir, "other")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(other, []byte("y"), 0644))

	good := filepath.Join(dir, "good")
	require.NoError(t, os.Symlink(src, good))
	wrong := filepath.Join(dir, "wrong")
	require.NoError(t, os.Symlink(other, wrong))
	broken := filepath.Join(dir, "broken")
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing"), broken))

	// chained links still resolve to the source
	chained := filepath.Join(dir, "chained")
	require.NoError(t, os.Symlink(good, chained))

	assert.True(t, paths.LinksTo(fsys, good, src))
	assert.True(t, paths.LinksTo(fsys, chained, src))
	assert.False(t, paths.LinksTo(fsys, wrong, src))
	assert.False(t, paths.LinksTo(fsys, broken, src))
	assert.False(t, paths.LinksTo(fsys, src, src), "a regular file is not a link")

	resolved, err := paths.Resolve(fsys, chained)
	require.NoError(t, err)
	want, _ := filepath.EvalSymlinks(src)
	assert.Equal(t, want, resolved.CanonicalTarget)
	assert.Equal(t, chained, resolved.LinkPath)

	_, err = paths.Resolve(fsys, broken)
	assert.Error(t, err)
}

func TestResolveParents(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	fsys := filesystem.NewOS()

	repo := filepath.Join(dir, "dotfiles")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "nvim"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "nvim", "init.lua"), []byte("x"), 0644))
	home := filepath.Join(dir, "home")
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".config"), 0755))
	require.NoError(t, os.Symlink(filepath.Join(repo, "nvim"), filepath.Join(home, ".config", "nvim")))

	tests := []struct {
		name string
		path string
		want string
	}{
		{"parent is a link into the repo", filepath.Join(home, ".config/nvim/init.lua"), filepath.Join(repo, "nvim/init.lua")},
		{"missing directories are kept", filepath.Join(home, ".config/nvim/lua/plugins/x.lua"), filepath.Join(repo, "nvim/lua/plugins/x.lua")},
		{"last element is not followed", filepath.Join(home, ".config/nvim"), filepath.Join(home, ".config/nvim")},
		{"plain path", filepath.Join(home, ".zshrc"), filepath.Join(home, ".zshrc")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paths.ResolveParents(fsys, tt.path))
		})
	}
}

func TestOverlaps(t *testing.T) {
	assert.True(t, paths.Overlaps("/home/u/dotfiles", "/home/u/dotfiles"))
	assert.True(t, paths.Overlaps("/home/u", "/home/u/dotfiles"))
	assert.True(t, paths.Overlaps("/home/u/dotfiles/zsh", "/home/u/dotfiles"))
	assert.False(t, paths.Overlaps("/home/u/dotfiles2", "/home/u/dotfiles"))
	assert.False(t, paths.Overlaps("/home/u/.zshrc", "/home/u/dotfiles"))
}
