// Package confirmations asks the user to approve risky install targets on
// the console.
package confirmations

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// MaxAttempts is how many unrecognized answers are tolerated per request
const MaxAttempts = 3

var (
	titleStyle = pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	itemStyle  = pterm.NewStyle(pterm.FgCyan)
)

// ConsolePrompter implements types.Prompter by reading lines from in. The
// approval token must be typed exactly; "n", "no" or an empty line decline.
type ConsolePrompter struct {
	out io.Writer

	start sync.Once
	in    io.Reader
	lines chan string
}

// NewConsolePrompter prompts on out and reads answers from in
func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{in: in, out: out}
}

// readLines feeds lines from in until EOF, then closes the channel. It runs
// for the life of the process so a cancelled prompt does not lose input.
func (p *ConsolePrompter) readLines() {
	scanner := bufio.NewScanner(p.in)
	for scanner.Scan() {
		p.lines <- scanner.Text()
	}
	close(p.lines)
}

// Confirm implements types.Prompter. Cancelling ctx while waiting declines
// with ctx's error. End of input declines.
func (p *ConsolePrompter) Confirm(ctx context.Context, req types.ConfirmationRequest) (bool, error) {
	logger := logging.GetLogger("confirmations")
	p.start.Do(func() {
		p.lines = make(chan string)
		go p.readLines()
	})

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, titleStyle.Sprint(req.Title))
	if req.Description != "" {
		fmt.Fprintln(p.out, req.Description)
	}
	for _, item := range req.Items {
		fmt.Fprintf(p.out, "  %s\n", itemStyle.Sprint(item))
	}

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		fmt.Fprintf(p.out, "Type %q to continue, or \"no\" to abort: ", req.Token)

		var answer string
		select {
		case <-ctx.Done():
			fmt.Fprintln(p.out)
			return false, ctx.Err()
		case line, ok := <-p.lines:
			if !ok {
				fmt.Fprintln(p.out)
				logger.Debug().Str("id", req.ID).Msg("input closed, declining")
				return false, nil
			}
			answer = strings.TrimSpace(line)
		}

		switch {
		case answer == req.Token:
			logger.Debug().Str("id", req.ID).Msg("confirmed")
			return true, nil
		case answer == "", strings.EqualFold(answer, "n"), strings.EqualFold(answer, "no"):
			logger.Debug().Str("id", req.ID).Msg("declined")
			return false, nil
		}

		fmt.Fprintf(p.out, "%s must be typed exactly.\n", pterm.Bold.Sprint(req.Token))
	}

	logger.Debug().Str("id", req.ID).Int("attempts", MaxAttempts).Msg("no valid answer, declining")
	return false, nil
}

var _ types.Prompter = (*ConsolePrompter)(nil)
