package cli

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dotlink/pkg/commands"
	"github.com/arthur-debert/dotlink/pkg/config"
	"github.com/arthur-debert/dotlink/pkg/filesystem"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/arthur-debert/dotlink/pkg/ui"
)

func newGenConfigCmd(opts *rootOptions) *cobra.Command {
	var (
		template bool
		write    bool
	)

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := opts.outputFormat()
			if err != nil {
				return err
			}

			p, err := paths.New(opts.repoRoot, "")
			if err != nil {
				return reportError(cmd, format, err)
			}
			settings, err := config.Load(p.RepoRoot())
			if err != nil {
				return reportError(cmd, format, err)
			}

			result, err := commands.GenConfig(commands.GenConfigOptions{
				Settings: settings,
				Template: template,
				Write:    write,
				RepoRoot: p.RepoRoot(),
				FS:       filesystem.NewOS(),
			})
			if err != nil {
				return reportError(cmd, format, err)
			}

			renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return renderer.RenderResult(result)
		},
	}

	cmd.Flags().BoolVar(&template, "template", false, MsgFlagTemplate)
	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)

	return cmd
}
