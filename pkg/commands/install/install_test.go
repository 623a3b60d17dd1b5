package install_test

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotlink/pkg/commands/install"
	"github.com/arthur-debert/dotlink/pkg/config"
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/arthur-debert/dotlink/pkg/safety"
	"github.com/arthur-debert/dotlink/pkg/symlink"
	"github.com/arthur-debert/dotlink/pkg/testutil"
	"github.com/arthur-debert/dotlink/pkg/types"
)

func fileEntry(source, target string) types.DotfileEntry {
	return types.DotfileEntry{Source: source, Target: target, Type: types.EntryFile}
}

func dirEntry(source, target string) types.DotfileEntry {
	return types.DotfileEntry{Source: source, Target: target, Type: types.EntryDirectory}
}

func options(t *testing.T, env *testutil.TestEnvironment, prompter types.Prompter, entries ...types.DotfileEntry) install.Options {
	t.Helper()
	settings, err := config.Defaults()
	require.NoError(t, err)
	rules := safety.NewRules(settings.Safety.ProtectedPaths, settings.Safety.RiskySegments)
	return install.Options{
		FS:         env.FS,
		Paths:      env.Paths,
		Manifest:   env.Manifest(entries...),
		Gate:       safety.NewGate(safety.NewClassifier(rules), prompter, settings.Safety.ConfirmToken),
		BackupRoot: env.BackupRoot("removed_entity"),
		Now:        func() time.Time { return time.Date(2024, 1, 15, 10, 30, 0, 0, time.Local) },
	}
}

func TestRun_CreatesLinks(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	zshrc := env.RepoFile("zsh/zshrc", "export A=1")
	nvim := env.RepoDir("nvim")

	res, err := install.Run(context.Background(), options(t, env, nil,
		fileEntry("zsh/zshrc", ".zshrc"),
		dirEntry("nvim", ".config/nvim"),
	))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Count(install.ActionCreated))
	assert.True(t, res.Success())
	assert.NoError(t, res.Err())
	testutil.AssertSymlinkTo(t, filepath.Join(env.HomeDir, ".zshrc"), zshrc)
	testutil.AssertSymlinkTo(t, filepath.Join(env.HomeDir, ".config", "nvim"), nvim)
}

func TestRun_SecondRunWritesNothing(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.RepoFile("zsh/zshrc", "x")
	env.RepoDir("nvim")
	opts := options(t, env, nil, fileEntry("zsh/zshrc", ".zshrc"), dirEntry("nvim", ".config/nvim"))

	_, err := install.Run(context.Background(), opts)
	require.NoError(t, err)

	before := env.Snapshot(env.Root)
	env.FS.Reset()

	res, err := install.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Count(install.ActionAlreadyLinked))
	assert.Zero(t, env.FS.MutationCount())
	assert.Equal(t, before, env.Snapshot(env.Root))
}

func TestRun_ReplacesExistingFileWithBackup(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	src := env.RepoFile("zsh/zshrc", "new")
	env.HomeFile(".zshrc", "old")

	res, err := install.Run(context.Background(), options(t, env, nil, fileEntry("zsh/zshrc", ".zshrc")))
	require.NoError(t, err)

	require.Len(t, res.Entries, 1)
	e := res.Entries[0]
	assert.Equal(t, install.ActionReplaced, e.Action)
	assert.Equal(t, symlink.ExistingFile, e.Replaced)
	assert.Equal(t, filepath.Join(env.BackupRoot("removed_entity"), ".zshrc_20240115_103000"), e.BackupPath)
	testutil.AssertFileContent(t, e.BackupPath, "old")
	testutil.AssertSymlinkTo(t, filepath.Join(env.HomeDir, ".zshrc"), src)
}

func TestRun_RelinksForeignSymlink(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	src := env.RepoFile("git/config", "[user]")
	other := env.HomeFile("elsewhere/gitconfig", "foreign")
	env.HomeSymlink(".gitconfig", other)

	res, err := install.Run(context.Background(), options(t, env, nil, fileEntry("git/config", ".gitconfig")))
	require.NoError(t, err)

	assert.Equal(t, install.ActionReplaced, res.Entries[0].Action)
	assert.Equal(t, symlink.ExistingSymlink, res.Entries[0].Replaced)
	testutil.AssertSymlinkTo(t, filepath.Join(env.HomeDir, ".gitconfig"), src)
	testutil.AssertFileContent(t, other, "foreign")
}

func TestRun_ForbiddenEntryTouchesNothing(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.RepoFile("zsh/zshrc", "x")
	env.RepoFile("ssh/config", "Host *")
	env.HomeFile(".zshrc", "old")
	before := env.Snapshot(env.Root)

	res, err := install.Run(context.Background(), options(t, env, testutil.NewScriptedPrompter(true),
		fileEntry("zsh/zshrc", ".zshrc"),
		dirEntry("ssh", ".ssh"),
	))

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSafetyViolation))
	assert.Empty(t, res.Entries)
	require.NotNil(t, res.Safety)
	assert.Len(t, res.Safety.Forbidden(), 1)
	assert.Zero(t, env.FS.MutationCount())
	assert.Equal(t, before, env.Snapshot(env.Root))
}

func TestRun_RiskyEntryNeedsConfirmation(t *testing.T) {
	tests := []struct {
		name     string
		prompter *testutil.ScriptedPrompter
		wantCode errors.ErrorCode
		linked   bool
	}{
		{name: "approved", prompter: testutil.NewScriptedPrompter(true), linked: true},
		{name: "declined", prompter: testutil.NewScriptedPrompter(false), wantCode: errors.ErrSafetyDeclined},
		{name: "prompt error", prompter: &testutil.ScriptedPrompter{Err: stderrors.New("tty gone")}, wantCode: errors.ErrSafetyDeclined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.NewTestEnvironment(t)
			src := env.RepoFile("firefox/user.js", "pref")
			target := filepath.Join(env.HomeDir, ".mozilla", "firefox", "user.js")

			res, err := install.Run(context.Background(), options(t, env, tt.prompter,
				fileEntry("firefox/user.js", ".mozilla/firefox/user.js"),
			))

			assert.Len(t, tt.prompter.Requests(), 1)
			assert.Equal(t, safety.DefaultConfirmToken, tt.prompter.Requests()[0].Token)
			if tt.linked {
				require.NoError(t, err)
				assert.Equal(t, install.ActionCreated, res.Entries[0].Action)
				testutil.AssertSymlinkTo(t, target, src)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.wantCode))
			assert.Zero(t, env.FS.MutationCount())
			testutil.AssertNotExists(t, target)
		})
	}
}

func TestRun_DryRun(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.RepoFile("zsh/zshrc", "x")
	env.RepoFile("git/config", "x")
	env.RepoFile("firefox/user.js", "x")
	env.HomeFile(".gitconfig", "old")
	prompter := testutil.NewScriptedPrompter()
	before := env.Snapshot(env.Root)

	opts := options(t, env, prompter,
		fileEntry("zsh/zshrc", ".zshrc"),
		fileEntry("git/config", ".gitconfig"),
		fileEntry("missing", ".missing"),
		fileEntry("firefox/user.js", ".mozilla/firefox/user.js"),
	)
	opts.DryRun = true

	res, err := install.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.Equal(t, 2, res.Count(install.ActionWouldCreate))
	assert.Equal(t, 1, res.Count(install.ActionWouldReplace))
	assert.Equal(t, 1, res.Count(install.ActionSkipped))
	assert.Len(t, res.Safety.NeedsConfirmation(), 1)
	assert.Empty(t, prompter.Requests())
	assert.Zero(t, env.FS.MutationCount())
	assert.Equal(t, before, env.Snapshot(env.Root))

	opts.DryRun = false
	opts.Gate = safety.NewGate(safety.NewClassifier(safety.NewRules(nil, nil)), nil, "")
	real, err := install.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, res.Linked(), real.Linked())
}

func TestRun_SkipsBadSources(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.RepoFile("zsh/zshrc", "x")
	env.RepoDir("nvim")
	env.RepoFile("git/config", "x")

	res, err := install.Run(context.Background(), options(t, env, nil,
		fileEntry("nope", ".nope"),
		fileEntry("nvim", ".nvimrc"),
		dirEntry("zsh/zshrc", ".zsh"),
		fileEntry("git/config", ".gitconfig"),
	))
	require.NoError(t, err)

	codes := []errors.ErrorCode{errors.ErrSourceMissing, errors.ErrTypeMismatch, errors.ErrTypeMismatch}
	for i, code := range codes {
		assert.Equal(t, install.ActionSkipped, res.Entries[i].Action)
		assert.True(t, errors.IsErrorCode(res.Entries[i].Err, code), "entry %d", i)
	}
	assert.Equal(t, install.ActionCreated, res.Entries[3].Action)
	assert.False(t, res.Success())
	assert.Error(t, res.Err())
	testutil.AssertNotExists(t, filepath.Join(env.HomeDir, ".nope"))
	testutil.AssertNotExists(t, filepath.Join(env.HomeDir, ".nvimrc"))
}

func TestRun_BackupFailureIsPerEntry(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.RepoFile("zsh/zshrc", "x")
	env.RepoFile("bash/bashrc", "x")
	zshrc := env.HomeFile(".zshrc", "keep me")
	env.FS.FailOn("MkdirAll", env.BackupRoot("removed_entity"), stderrors.New("disk full"))

	res, err := install.Run(context.Background(), options(t, env, nil,
		fileEntry("zsh/zshrc", ".zshrc"),
		fileEntry("bash/bashrc", ".bashrc"),
	))
	require.NoError(t, err)

	assert.Equal(t, install.ActionFailed, res.Entries[0].Action)
	assert.True(t, errors.IsErrorCode(res.Entries[0].Err, errors.ErrBackupFailed))
	testutil.AssertFileContent(t, zshrc, "keep me")
	assert.Equal(t, install.ActionCreated, res.Entries[1].Action)
}

func TestRun_CancelledContext(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.RepoFile("firefox/user.js", "x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := install.Run(ctx, options(t, env, testutil.NewScriptedPrompter(true),
		fileEntry("firefox/user.js", ".mozilla/firefox/user.js"),
	))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSafetyDeclined))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_TargetThroughLinkedParentIsSkipped(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	initLua := env.RepoFile("nvim/init.lua", "vim.o.number = true")
	nvim := filepath.Join(env.RepoRoot, "nvim")
	entries := []types.DotfileEntry{
		dirEntry("nvim", ".config/nvim"),
		fileEntry("nvim/init.lua", ".config/nvim/init.lua"),
	}

	for _, dryRun := range []bool{false, true} {
		opts := options(t, env, nil, entries...)
		opts.DryRun = dryRun
		res, err := install.Run(context.Background(), opts)
		require.NoError(t, err)

		assert.Equal(t, install.ActionSkipped, res.Entries[1].Action, "dryRun=%v", dryRun)
		assert.True(t, errors.IsErrorCode(res.Entries[1].Err, errors.ErrTargetInRepo), "dryRun=%v", dryRun)
		assert.False(t, res.Success(), "dryRun=%v", dryRun)
	}

	// the directory link is already in place, so nothing more is written
	env.FS.Reset()
	res, err := install.Run(context.Background(), options(t, env, nil, entries...))
	require.NoError(t, err)
	assert.Equal(t, install.ActionAlreadyLinked, res.Entries[0].Action)
	assert.Equal(t, install.ActionSkipped, res.Entries[1].Action)
	assert.Zero(t, env.FS.MutationCount())

	testutil.AssertSymlinkTo(t, filepath.Join(env.HomeDir, ".config", "nvim"), nvim)
	testutil.AssertFileContent(t, initLua, "vim.o.number = true")
	assert.Empty(t, testutil.BackupEntries(t, env.BackupRoot("removed_entity")))
}

func TestRun_TargetContainingRepositoryIsSkipped(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.RepoFile("zsh/zshrc", "x")
	before := env.Snapshot(env.RepoRoot)

	// home is the parent of the repository, so "dotfiles" is the repository
	opts := options(t, env, nil, dirEntry("zsh", "dotfiles"))
	p, err := paths.New(env.RepoRoot, env.Root)
	require.NoError(t, err)
	opts.Paths = p
	env.FS.Reset()

	res, err := install.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, install.ActionSkipped, res.Entries[0].Action)
	assert.True(t, errors.IsErrorCode(res.Entries[0].Err, errors.ErrTargetInRepo))
	assert.Zero(t, env.FS.MutationCount())
	assert.Equal(t, before, env.Snapshot(env.RepoRoot))
}
