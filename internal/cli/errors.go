package cli

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dotlink/pkg/ui"
	"github.com/arthur-debert/dotlink/pkg/ui/display"
	"github.com/arthur-debert/dotlink/pkg/ui/styles"
)

// ExitError makes the process exit with status 1 without printing anything
// more. Err, when set, has already been shown to the user.
type ExitError struct {
	Err error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "command did not fully succeed"
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// reportError renders err in format: JSON goes to stdout next to the
// result, everything else to stderr
func reportError(cmd *cobra.Command, format ui.Format, err error) error {
	w := cmd.ErrOrStderr()
	if format == ui.FormatJSON {
		w = cmd.OutOrStdout()
	}
	renderer, rerr := ui.NewRenderer(format, w)
	if rerr != nil || renderer.RenderError(err) != nil {
		fmt.Fprintf(w, "Error: %s\n", display.ErrorText(err))
	}
	return &ExitError{Err: err}
}

// Execute runs rootCmd and returns the process exit code. Errors that were
// not already reported are printed to the command's stderr.
func Execute(ctx context.Context, rootCmd *cobra.Command) int {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if !stderrors.As(err, &exitErr) {
		errorStyle := styles.Get("Error")
		fmt.Fprintln(rootCmd.ErrOrStderr(), errorStyle.Render("Error: "+display.ErrorText(err)))
	}
	return 1
}
