package cli

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dotlink/internal/version"
	"github.com/arthur-debert/dotlink/pkg/cobrax/topics"
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/ui"
)

//go:embed topics/*.md
var topicFiles embed.FS

// rootOptions holds the global flags shared by every subcommand
type rootOptions struct {
	verbosity int
	format    string
	repoRoot  string
	manifest  string
	dryRun    bool
}

func (o *rootOptions) outputFormat() (ui.Format, error) {
	return ui.ParseFormat(o.format)
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "dotlink",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLoggerWithOptions(logging.Options{
				Verbosity: opts.verbosity,
				Console:   cmd.ErrOrStderr(),
				NoColor:   os.Getenv("NO_COLOR") != "",
			})
			logging.LogCommand(cmd.CommandPath(), args)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")

			_, err := opts.outputFormat()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "auto", MsgFlagFormat)
	rootCmd.PersistentFlags().StringVar(&opts.repoRoot, "repo", "", MsgFlagRepo)
	rootCmd.PersistentFlags().StringVarP(&opts.manifest, "config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return ui.FormatNames(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newInstallCmd(opts))
	rootCmd.AddCommand(newStatusCmd(opts))
	rootCmd.AddCommand(newCleanCmd(opts))
	rootCmd.AddCommand(newGenConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	// Topic-aware help replaces cobra's help command
	topicFS, err := fs.Sub(topicFiles, "topics")
	if err == nil {
		_, err = topics.InitializeWithOptions(rootCmd, topicFS, topics.Options{
			Extensions: []string{".md"},
			Renderer:   topics.NewGlamourRenderer(),
		})
	}
	if err != nil {
		// The default help command still works
		fmt.Fprintf(os.Stderr, "Warning: help topics unavailable: %v\n", err)
	}

	return rootCmd
}
