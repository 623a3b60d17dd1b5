package cli

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/testutil"
	"github.com/arthur-debert/dotlink/pkg/types"
	"github.com/arthur-debert/dotlink/pkg/ui/display"
)

type run struct {
	err    error
	stdout string
	stderr string
}

func execute(t *testing.T, stdin string, args ...string) run {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return run{err: err, stdout: stdout.String(), stderr: stderr.String()}
}

func decodeResult(t *testing.T, out string) display.Result {
	t.Helper()
	var result display.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	return result
}

func linkEnv(t *testing.T) (*testutil.TestEnvironment, types.DotfileEntry) {
	env := testutil.NewTestEnvironment(t)
	env.RepoFile("zsh/zshrc", "export EDITOR=vim\n")
	entry := types.DotfileEntry{Source: "zsh/zshrc", Target: ".zshrc", Type: types.EntryFile}
	env.WriteManifest(entry)
	return env, entry
}

func TestInstallThenStatus(t *testing.T) {
	env, _ := linkEnv(t)

	r := execute(t, "", "install", "--repo", env.RepoRoot, "--format", "json")
	require.NoError(t, r.err)
	result := decodeResult(t, r.stdout)
	assert.True(t, result.Success)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "created", result.Rows[0].Action)
	assert.Equal(t, "Summary: Linked 1/1", result.Summary)
	testutil.AssertSymlinkTo(t, filepath.Join(env.HomeDir, ".zshrc"), filepath.Join(env.RepoRoot, "zsh/zshrc"))

	r = execute(t, "", "status", "--format", "json")
	require.NoError(t, r.err)
	result = decodeResult(t, r.stdout)
	assert.True(t, result.Success)
	assert.Equal(t, "Summary: 1/1 correctly linked", result.Summary)
}

func TestStatus_NotLinkedExitsNonZero(t *testing.T) {
	linkEnv(t)

	r := execute(t, "", "status", "--format", "text")
	var exitErr *ExitError
	require.True(t, stderrors.As(r.err, &exitErr))
	assert.Nil(t, exitErr.Err)
	assert.Contains(t, r.stdout, "not linked")
	assert.Contains(t, r.stdout, "Summary: 0/1 correctly linked")
}

func TestInstall_DryRunWritesNothing(t *testing.T) {
	env, _ := linkEnv(t)
	before := env.Snapshot(env.HomeDir)

	r := execute(t, "", "install", "--dry-run", "--format", "text")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Dry run: 1 would be linked")
	assert.Equal(t, before, env.Snapshot(env.HomeDir))
}

func TestDryRunRejectedOutsideInstall(t *testing.T) {
	for _, cmd := range []string{"status", "clean"} {
		t.Run(cmd, func(t *testing.T) {
			linkEnv(t)

			r := execute(t, "", cmd, "--dry-run", "--format", "text")
			var exitErr *ExitError
			require.True(t, stderrors.As(r.err, &exitErr))
			assert.True(t, errors.IsErrorCode(r.err, errors.ErrInvalidInput))
			assert.Contains(t, r.stderr, "--dry-run is only supported by install")
			assert.Empty(t, r.stdout)
		})
	}
}

func TestInstall_RiskyTargetPrompts(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.RepoFile("firefox/user.js", "pref\n")
	entry := types.DotfileEntry{Source: "firefox/user.js", Target: ".mozilla/firefox/user.js", Type: types.EntryFile}
	env.WriteManifest(entry)
	target := filepath.Join(env.HomeDir, ".mozilla/firefox/user.js")

	t.Run("declined", func(t *testing.T) {
		r := execute(t, "no\n", "install", "--format", "text")
		assert.True(t, errors.IsErrorCode(r.err, errors.ErrSafetyDeclined))
		assert.Contains(t, r.stderr, ".mozilla/firefox/user.js")
		testutil.AssertNotExists(t, target)
	})

	t.Run("approved", func(t *testing.T) {
		r := execute(t, "I UNDERSTAND\n", "install", "--format", "text")
		require.NoError(t, r.err)
		testutil.AssertSymlinkTo(t, target, filepath.Join(env.RepoRoot, "firefox/user.js"))
	})
}

func TestInstall_ForbiddenTargetReportsJSONError(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.RepoFile("ssh/config", "Host *\n")
	env.WriteManifest(types.DotfileEntry{Source: "ssh/config", Target: "../outside", Type: types.EntryFile})
	before := env.Snapshot(env.HomeDir)

	r := execute(t, "", "install", "--format", "json")
	assert.True(t, errors.IsErrorCode(r.err, errors.ErrSafetyViolation))
	assert.Contains(t, r.stdout, `"code": "SAFETY_VIOLATION"`)
	assert.Equal(t, before, env.Snapshot(env.HomeDir))
	testutil.AssertNotExists(t, filepath.Join(env.Root, "outside"))
}

func TestClean_RemovesOrphans(t *testing.T) {
	env, zsh := linkEnv(t)
	env.RepoFile("git/config", "[user]\n")
	git := types.DotfileEntry{Source: "git/config", Target: ".gitconfig", Type: types.EntryFile}
	env.WriteManifest(zsh, git)
	require.NoError(t, execute(t, "", "install").err)

	env.WriteManifest(zsh)
	r := execute(t, "", "clean", "--format", "text")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Summary: Removed 1/1")
	testutil.AssertNotExists(t, filepath.Join(env.HomeDir, ".gitconfig"))
	assert.Len(t, testutil.BackupEntries(t, env.BackupRoot("removed_symlinks")), 1)
}

func TestCustomManifestFlag(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.RepoFile("vim/vimrc", "set nu\n")
	env.RepoFile("work.json", `{"dotfiles": [{"source": "vim/vimrc", "target": ".vimrc", "type": "file"}]}`)

	r := execute(t, "", "install", "-c", "work.json")
	require.NoError(t, r.err)
	testutil.AssertSymlinkTo(t, filepath.Join(env.HomeDir, ".vimrc"), filepath.Join(env.RepoRoot, "vim/vimrc"))
}

func TestMissingManifest(t *testing.T) {
	testutil.NewTestEnvironment(t)

	r := execute(t, "", "status", "--format", "text")
	assert.True(t, errors.IsErrorCode(r.err, errors.ErrConfigLoad))
	assert.Contains(t, r.stderr, "dot-config.json")
}

func TestUnknownFormat(t *testing.T) {
	linkEnv(t)

	r := execute(t, "", "status", "--format", "xml")
	assert.True(t, errors.IsErrorCode(r.err, errors.ErrInvalidInput))
}

func TestGenConfig(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	r := execute(t, "", "genconfig")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "confirm_token")
	assert.Contains(t, r.stdout, "I UNDERSTAND")

	r = execute(t, "", "genconfig", "--template")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, `# confirm_token = "I UNDERSTAND"`)

	r = execute(t, "", "genconfig", "--write")
	require.NoError(t, r.err)
	assert.FileExists(t, filepath.Join(env.RepoRoot, ".dotlink.toml"))

	r = execute(t, "", "genconfig", "--write")
	assert.True(t, errors.IsErrorCode(r.err, errors.ErrInvalidInput))
}

func TestVersion(t *testing.T) {
	r := execute(t, "", "version")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "dotlink version dev")
}

func TestHelpTopics(t *testing.T) {
	r := execute(t, "", "help", "topics")
	require.NoError(t, r.err)
	for _, topic := range []string{"backups", "manifest", "safety"} {
		assert.Contains(t, r.stdout, topic)
	}

	r = execute(t, "", "help", "--dry-run")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "dry-run")
}

func TestCompletion(t *testing.T) {
	r := execute(t, "", "completion", "bash")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "dotlink")

	r = execute(t, "", "completion", "tcsh")
	assert.Error(t, r.err)
}

func TestExecute(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	root := NewRootCmd()
	var stderr bytes.Buffer
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&stderr)
	root.SetArgs([]string{"version"})
	assert.Equal(t, 0, Execute(context.Background(), root))

	root = NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&stderr)
	root.SetArgs([]string{"completion", "tcsh"})
	assert.Equal(t, 1, Execute(context.Background(), root))
	assert.Contains(t, stderr.String(), "Error:")
}
