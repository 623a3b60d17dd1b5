package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Keep a dotfiles repository linked into your home directory"
	MsgInstallShort    = "Link every manifest entry into your home directory"
	MsgStatusShort     = "Show whether every manifest entry is correctly linked"
	MsgCleanShort      = "Remove links into the repository the manifest no longer lists"
	MsgGenConfigShort  = "Print the effective settings as TOML"
	MsgVersionShort    = "Print version information"
	MsgVersionLong     = "Print detailed version information including commit hash and build date"
	MsgCompletionShort = "Generate shell completion scripts"
	MsgManShort        = "Generate man pages"

	// Version output
	MsgVersionFormat = "dotlink version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Man pages
	MsgManWritten = "Man pages written to %s\n"

	// Error messages
	MsgErrNoCommand     = "no command specified"
	MsgErrUnknownShell  = "unsupported shell %q (expected bash, zsh, fish or powershell)"
	MsgErrGenerateMan   = "failed to generate man pages"
	MsgErrCreateManDir  = "failed to create man page directory"
	MsgErrRenderFailure = "failed to render output"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat   = "Output format (auto, term, text, json)"
	MsgFlagRepo     = "Repository root (defaults to DOTFILES_ROOT, then the git top-level, then the current directory)"
	MsgFlagConfig   = "Manifest path, relative to the repository root unless absolute"
	MsgFlagDryRun   = "Preview changes without executing them (install only)"
	MsgFlagTemplate = "Print the defaults as a commented template"
	MsgFlagWrite    = "Write .dotlink.toml at the repository root instead of printing"
	MsgFlagManDir   = "Directory the man pages are written to"

	// Debug messages
	MsgDebugRepoRoot = "Debug: using repository root: %s (fallback=%v)\n"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/install-long.txt
	msgInstallLongRaw string
	MsgInstallLong    = strings.TrimSpace(msgInstallLongRaw)

	//go:embed msgs/install-example.txt
	msgInstallExampleRaw string
	MsgInstallExample    = strings.TrimRight(msgInstallExampleRaw, "\n")

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/clean-long.txt
	msgCleanLongRaw string
	MsgCleanLong    = strings.TrimSpace(msgCleanLongRaw)

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/fallback-warning.txt
	msgFallbackWarningRaw string
	MsgFallbackWarning    = strings.TrimSpace(msgFallbackWarningRaw) + "\n"

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
