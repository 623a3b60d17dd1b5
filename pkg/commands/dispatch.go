package commands

import (
	"context"

	"github.com/arthur-debert/dotlink/pkg/commands/clean"
	"github.com/arthur-debert/dotlink/pkg/commands/install"
	"github.com/arthur-debert/dotlink/pkg/commands/status"
	"github.com/arthur-debert/dotlink/pkg/config"
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/filesystem"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/manifest"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/arthur-debert/dotlink/pkg/safety"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// CommandType names a lifecycle command
type CommandType string

const (
	CommandInstall CommandType = "install"
	CommandStatus  CommandType = "status"
	CommandClean   CommandType = "clean"
)

// DispatchOptions contains everything a lifecycle command may need.
// Each command uses only the fields it needs.
type DispatchOptions struct {
	// RepoRoot overrides repository discovery when set
	RepoRoot string
	// ManifestPath overrides the configured manifest; relative paths resolve
	// against the repository root
	ManifestPath string
	DryRun       bool
	// FileSystem defaults to the real filesystem
	FileSystem types.FS
	// Prompter confirms risky install targets
	Prompter types.Prompter
}

// Header describes the environment a command ran in
type Header struct {
	RepoRoot     string `json:"repo_root"`
	ManifestPath string `json:"manifest_path"`
	HomeRoot     string `json:"home_root"`
	BackupRoot   string `json:"backup_root"`
	UsedFallback bool   `json:"used_fallback,omitempty"`
}

// DispatchResult carries the result of whichever command ran
type DispatchResult struct {
	Command CommandType     `json:"command"`
	Header  Header          `json:"header"`
	Install *install.Result `json:"install,omitempty"`
	Status  *status.Result  `json:"status,omitempty"`
	Clean   *clean.Result   `json:"clean,omitempty"`
}

// Success reports whether the command fully succeeded
func (r *DispatchResult) Success() bool {
	switch {
	case r.Install != nil:
		return r.Install.Success()
	case r.Status != nil:
		return r.Status.AllCorrect()
	case r.Clean != nil:
		return r.Clean.Success()
	}
	return false
}

// Environment is the resolved state shared by lifecycle commands
type Environment struct {
	FS           types.FS
	Paths        *paths.Paths
	Settings     *config.Settings
	ManifestPath string
	Manifest     *types.Manifest
}

// Prepare resolves paths, loads settings and parses the manifest. Any error
// here is fatal to the command.
func Prepare(opts DispatchOptions) (*Environment, error) {
	fsys := opts.FileSystem
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	p, err := paths.New(opts.RepoRoot, "")
	if err != nil {
		return nil, err
	}

	settings, err := config.Load(p.RepoRoot())
	if err != nil {
		return nil, err
	}

	manifestPath := opts.ManifestPath
	if manifestPath == "" {
		manifestPath = settings.Paths.Manifest
	}
	manifestPath = p.InRepo(manifestPath)

	m, err := manifest.Load(fsys, manifestPath)
	if err != nil {
		return nil, err
	}

	return &Environment{
		FS:           fsys,
		Paths:        p,
		Settings:     settings,
		ManifestPath: manifestPath,
		Manifest:     m,
	}, nil
}

// Dispatch prepares the environment and runs cmdType. When preparation
// fails the returned result still carries whatever header is known.
func Dispatch(ctx context.Context, cmdType CommandType, opts DispatchOptions) (*DispatchResult, error) {
	logger := logging.GetLogger("commands.dispatch")
	logger.Debug().
		Str("command", string(cmdType)).
		Str("repoRoot", opts.RepoRoot).
		Str("manifest", opts.ManifestPath).
		Bool("dryRun", opts.DryRun).
		Msg("Dispatching command")

	if opts.DryRun && cmdType != CommandInstall {
		return nil, errors.Newf(errors.ErrInvalidInput, "--dry-run is only supported by install, not %s", cmdType)
	}

	env, err := Prepare(opts)
	if err != nil {
		return nil, err
	}

	result := &DispatchResult{Command: cmdType, Header: Header{
		RepoRoot:     env.Paths.RepoRoot(),
		ManifestPath: env.ManifestPath,
		HomeRoot:     env.Paths.HomeRoot(),
		UsedFallback: env.Paths.UsedFallback(),
	}}

	switch cmdType {
	case CommandInstall:
		result.Header.BackupRoot = env.Paths.BackupRoot(env.Settings.Paths.BackupDir, env.Settings.Paths.InstallBackups)
		rules := safety.NewRules(env.Settings.Safety.ProtectedPaths, env.Settings.Safety.RiskySegments)
		result.Install, err = install.Run(ctx, install.Options{
			FS:         env.FS,
			Paths:      env.Paths,
			Manifest:   env.Manifest,
			Gate:       safety.NewGate(safety.NewClassifier(rules), opts.Prompter, env.Settings.Safety.ConfirmToken),
			BackupRoot: result.Header.BackupRoot,
			DryRun:     opts.DryRun,
		})
	case CommandStatus:
		result.Status, err = status.Run(status.Options{
			FS:       env.FS,
			Paths:    env.Paths,
			Manifest: env.Manifest,
		})
	case CommandClean:
		result.Header.BackupRoot = env.Paths.BackupRoot(env.Settings.Paths.BackupDir, env.Settings.Paths.CleanBackups)
		result.Clean, err = clean.Run(ctx, clean.Options{
			FS:         env.FS,
			Paths:      env.Paths,
			Manifest:   env.Manifest,
			BackupRoot: result.Header.BackupRoot,
			ScanDirs:   env.Settings.Discovery.ScanDirs,
		})
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown command %q", cmdType)
	}

	return result, err
}
