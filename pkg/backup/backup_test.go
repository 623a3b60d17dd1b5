package backup_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotlink/pkg/backup"
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/testutil"
)

var fixedNow = time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

func newManager(env *testutil.TestEnvironment) *backup.Manager {
	return backup.New(env.FS).WithClock(func() time.Time { return fixedNow })
}

func TestBackup_RegularFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	src := env.HomeFile(".zshrc", "export EDITOR=vim\n")
	require.NoError(t, os.Chmod(src, 0640))
	mtime := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	root := env.BackupRoot("removed_entity")
	dest, err := newManager(env).Backup(src, root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, ".zshrc_20240309_140507"), dest)
	testutil.AssertFileContent(t, dest, "export EDITOR=vim\n")
	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm())
	assert.True(t, info.ModTime().Equal(mtime))

	// the original is untouched
	testutil.AssertFileContent(t, src, "export EDITOR=vim\n")
}

func TestBackup_SymlinkCopiedAsLink(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	broken := env.HomeSymlink(".vimrc", "/does/not/exist")

	dest, err := newManager(env).Backup(broken, env.BackupRoot("removed_symlinks"))
	require.NoError(t, err)

	got, err := os.Readlink(dest)
	require.NoError(t, err)
	assert.Equal(t, "/does/not/exist", got)
}

func TestBackup_DirectoryRecursive(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	dir := env.HomeDirAt(".config/nvim")
	env.HomeFile(".config/nvim/init.lua", "require('x')")
	env.HomeFile(".config/nvim/lua/plugins.lua", "return {}")
	require.NoError(t, os.Symlink("init.lua", filepath.Join(dir, "alias.lua")))

	dest, err := newManager(env).Backup(dir, env.BackupRoot("removed_entity"))
	require.NoError(t, err)

	assert.Equal(t, "nvim_20240309_140507", filepath.Base(dest))
	assert.Equal(t, testutil.Snapshot(t, dir), testutil.Snapshot(t, dest))
}

func TestBackup_NeverOverwrites(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	root := env.BackupRoot("removed_entity")
	m := newManager(env)

	first := env.HomeFile(".gitconfig", "one")
	dest1, err := m.Backup(first, root)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(first, []byte("two"), 0644))
	dest2, err := m.Backup(first, root)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(first, []byte("three"), 0644))
	dest3, err := m.Backup(first, root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, ".gitconfig_20240309_140507"), dest1)
	assert.Equal(t, filepath.Join(root, ".gitconfig_20240309_140507_1"), dest2)
	assert.Equal(t, filepath.Join(root, ".gitconfig_20240309_140507_2"), dest3)
	testutil.AssertFileContent(t, dest1, "one")
	testutil.AssertFileContent(t, dest2, "two")
	testutil.AssertFileContent(t, dest3, "three")
}

func TestBackup_MissingPath(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	_, err := newManager(env).Backup(filepath.Join(env.HomeDir, "nope"), env.BackupRoot("x"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackupFailed))
	testutil.AssertNotExists(t, env.BackupRoot("x"))
}

func TestBackup_RootCreationFails(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	src := env.HomeFile(".zshrc", "x")
	// a file where the backup root's parent should be
	blocker := env.RepoFile("backups", "not a dir")

	_, err := newManager(env).Backup(src, filepath.Join(blocker, "removed_entity"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackupFailed))
	testutil.AssertFileContent(t, src, "x")
}

func TestBackup_UsesWallClockByDefault(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	src := env.HomeFile(".profile", "x")

	before := time.Now().Add(-time.Second)
	dest, err := backup.New(env.FS).Backup(src, env.BackupRoot("removed_entity"))
	require.NoError(t, err)

	stamp := filepath.Base(dest)[len(".profile_"):]
	parsed, err := time.ParseInLocation(backup.TimestampFormat, stamp, time.Local)
	require.NoError(t, err)
	assert.False(t, parsed.Before(before.Truncate(time.Second)))
}

func TestBackup_RefusesDirectoryHoldingBackupRoot(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.RepoFile("zsh/zshrc", "x")
	linked := env.HomeSymlink("work", env.Root)
	before := env.Snapshot(env.RepoRoot)

	for _, dir := range []string{env.RepoRoot, filepath.Join(linked, "dotfiles")} {
		env.FS.Reset()
		_, err := newManager(env).Backup(dir, env.BackupRoot("removed_entity"))
		require.Error(t, err, dir)
		assert.True(t, errors.IsErrorCode(err, errors.ErrBackupFailed), dir)
		assert.Zero(t, env.FS.MutationCount(), dir)
	}

	testutil.AssertNotExists(t, filepath.Join(env.RepoRoot, "backups"))
	assert.Equal(t, before, env.Snapshot(env.RepoRoot))
}

func TestBackup_SiblingDirectoryIsCopied(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.RepoFile("nvim/init.lua", "x")

	dest, err := newManager(env).Backup(filepath.Join(env.RepoRoot, "nvim"), env.BackupRoot("removed_entity"))
	require.NoError(t, err)
	testutil.AssertFileContent(t, filepath.Join(dest, "init.lua"), "x")
}
