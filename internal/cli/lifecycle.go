package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dotlink/pkg/commands"
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/ui"
	"github.com/arthur-debert/dotlink/pkg/ui/confirmations"
)

func newInstallCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "install",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		Example: MsgInstallExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLifecycle(cmd, opts, commands.CommandInstall)
		},
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLifecycle(cmd, opts, commands.CommandStatus)
		},
	}
}

func newCleanCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "clean",
		Short:   MsgCleanShort,
		Long:    MsgCleanLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLifecycle(cmd, opts, commands.CommandClean)
		},
	}
}

// runLifecycle dispatches cmdType, renders whatever result came back and
// turns anything short of full success into an ExitError
func runLifecycle(cmd *cobra.Command, opts *rootOptions, cmdType commands.CommandType) error {
	format, err := opts.outputFormat()
	if err != nil {
		return err
	}
	renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	result, err := commands.Dispatch(cmd.Context(), cmdType, commands.DispatchOptions{
		RepoRoot:     opts.repoRoot,
		ManifestPath: opts.manifest,
		DryRun:       opts.dryRun,
		Prompter:     confirmations.NewConsolePrompter(cmd.InOrStdin(), cmd.ErrOrStderr()),
	})

	if result != nil {
		if result.Header.UsedFallback {
			fmt.Fprintf(cmd.ErrOrStderr(), MsgFallbackWarning, result.Header.RepoRoot)
		}
		if renderErr := renderer.RenderResult(result); renderErr != nil {
			return errors.Wrap(renderErr, errors.ErrInternal, MsgErrRenderFailure)
		}
	}

	if err != nil {
		return reportError(cmd, format, err)
	}
	if !result.Success() {
		return &ExitError{}
	}
	return nil
}
