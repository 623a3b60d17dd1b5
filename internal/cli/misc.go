package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/dotlink/internal/version"
	"github.com/arthur-debert/dotlink/pkg/errors"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Long:    MsgVersionLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, version.Version)
			fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			fmt.Fprintf(out, MsgBuiltFormat, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return GenerateCompletion(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	}
}

// GenerateCompletion writes the completion script for shell
func GenerateCompletion(root *cobra.Command, shell string, out io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(out, true)
	case "zsh":
		return root.GenZshCompletion(out)
	case "fish":
		return root.GenFishCompletion(out, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(out)
	default:
		return errors.Newf(errors.ErrInvalidInput, MsgErrUnknownShell, shell)
	}
}

// ManHeader is the header used for every generated man page
func ManHeader() *doc.GenManHeader {
	return &doc.GenManHeader{
		Title:   "DOTLINK",
		Section: "1",
		Source:  "dotlink " + version.Version,
		Manual:  "dotlink manual",
	}
}

func newManCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Hidden:  true,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return errors.Wrap(err, errors.ErrDirCreate, MsgErrCreateManDir)
			}
			if err := doc.GenManTree(cmd.Root(), ManHeader(), dir); err != nil {
				return errors.Wrap(err, errors.ErrInternal, MsgErrGenerateMan)
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgManWritten, dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "man", MsgFlagManDir)

	return cmd
}
