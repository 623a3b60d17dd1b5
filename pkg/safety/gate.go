package safety

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// DefaultConfirmToken is the phrase that approves a risky entry
const DefaultConfirmToken = "I UNDERSTAND"

// Finding is the classification of one manifest entry
type Finding struct {
	Index          int                `json:"index"`
	Entry          types.DotfileEntry `json:"entry"`
	Classification Classification     `json:"classification"`
	// Confirmed is set for risky entries the user approved
	Confirmed bool `json:"confirmed,omitempty"`
}

// Report is the outcome of a preflight over a whole manifest
type Report struct {
	Findings []Finding `json:"findings"`
}

// Forbidden returns the forbidden findings in manifest order
func (r *Report) Forbidden() []Finding {
	return r.filter(Forbidden)
}

// Risky returns the risky findings in manifest order
func (r *Report) Risky() []Finding {
	return r.filter(Risky)
}

// NeedsConfirmation returns risky findings that have not been approved
func (r *Report) NeedsConfirmation() []Finding {
	var out []Finding
	for _, f := range r.Risky() {
		if !f.Confirmed {
			out = append(out, f)
		}
	}
	return out
}

func (r *Report) filter(level Level) []Finding {
	if r == nil {
		return nil
	}
	var out []Finding
	for _, f := range r.Findings {
		if f.Classification.Level == level {
			out = append(out, f)
		}
	}
	return out
}

// Gate runs the preflight for install
type Gate struct {
	classifier *Classifier
	prompter   types.Prompter
	token      string
}

// NewGate returns a gate that asks prompter to approve risky entries with
// token. An empty token means DefaultConfirmToken. A nil prompter declines
// everything risky.
func NewGate(classifier *Classifier, prompter types.Prompter, token string) *Gate {
	if token == "" {
		token = DefaultConfirmToken
	}
	return &Gate{classifier: classifier, prompter: prompter, token: token}
}

// Classify builds a report for entries without prompting
func (g *Gate) Classify(entries []types.DotfileEntry) *Report {
	report := &Report{Findings: make([]Finding, 0, len(entries))}
	for i, entry := range entries {
		c := g.classifier.ClassifySource(entry.Source)
		if c.Level != Forbidden {
			c = g.classifier.Classify(entry.Target)
		}
		report.Findings = append(report.Findings, Finding{Index: i, Entry: entry, Classification: c})
	}
	return report
}

// Check classifies every entry before anything is touched. Any forbidden
// entry fails the whole run with SAFETY_VIOLATION. Risky entries are then
// confirmed one at a time in manifest order; the first decline fails with
// SAFETY_DECLINED. In dry-run nothing is prompted and the report lists the
// risky entries that would need confirmation.
func (g *Gate) Check(ctx context.Context, entries []types.DotfileEntry, dryRun bool) (*Report, error) {
	logger := logging.GetLogger("safety")
	report := g.Classify(entries)

	if forbidden := report.Forbidden(); len(forbidden) > 0 {
		lines := make([]string, 0, len(forbidden))
		for _, f := range forbidden {
			lines = append(lines, fmt.Sprintf("dotfiles[%d] %s: %s", f.Index, f.Entry.Target, f.Classification.Reason))
			logger.Error().
				Int("index", f.Index).
				Str("source", f.Entry.Source).
				Str("target", f.Entry.Target).
				Str("reason", f.Classification.Reason).
				Msg("forbidden entry")
		}
		return report, errors.Newf(errors.ErrSafetyViolation,
			"%d forbidden entr%s in manifest:\n  %s", len(forbidden), plural(len(forbidden)), strings.Join(lines, "\n  ")).
			WithDetail("findings", forbidden)
	}

	if dryRun {
		return report, nil
	}

	for i := range report.Findings {
		f := &report.Findings[i]
		if f.Classification.Level != Risky {
			continue
		}

		approved, err := g.confirm(ctx, *f)
		if err != nil || !approved {
			logger.Warn().
				Err(err).
				Int("index", f.Index).
				Str("target", f.Entry.Target).
				Msg("risky entry not approved")
			declined := errors.Newf(errors.ErrSafetyDeclined,
				"confirmation declined for dotfiles[%d] %s", f.Index, f.Entry.Target).
				WithDetail("index", f.Index)
			if err != nil {
				declined.Wrapped = err
			}
			return report, declined
		}
		f.Confirmed = true
		logger.Info().Int("index", f.Index).Str("target", f.Entry.Target).Msg("risky entry approved")
	}

	return report, nil
}

func (g *Gate) confirm(ctx context.Context, f Finding) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if g.prompter == nil {
		return false, nil
	}
	return g.prompter.Confirm(ctx, types.ConfirmationRequest{
		ID:    fmt.Sprintf("dotfiles[%d]", f.Index),
		Title: "Risky target: ~/" + strings.TrimPrefix(f.Entry.Target, "/"),
		Description: fmt.Sprintf("Linking %s will replace ~/%s (%s). Anything there is backed up first.",
			f.Entry.Source, f.Entry.Target, f.Classification.Reason),
		Items: []string{f.Entry.Target},
		Token: g.token,
	})
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
