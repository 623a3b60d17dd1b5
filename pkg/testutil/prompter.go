package testutil

import (
	"context"
	"sync"

	"github.com/arthur-debert/dotlink/pkg/types"
)

// ScriptedPrompter answers confirmation requests from a fixed script.
// Requests past the end of Answers are declined.
type ScriptedPrompter struct {
	Answers []bool
	// Err, when set, is returned for every request
	Err error

	mu       sync.Mutex
	requests []types.ConfirmationRequest
}

// NewScriptedPrompter returns a prompter that gives answers in order
func NewScriptedPrompter(answers ...bool) *ScriptedPrompter {
	return &ScriptedPrompter{Answers: answers}
}

// Confirm implements types.Prompter
func (p *ScriptedPrompter) Confirm(ctx context.Context, req types.ConfirmationRequest) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := len(p.requests)
	p.requests = append(p.requests, req)

	if p.Err != nil {
		return false, p.Err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if idx >= len(p.Answers) {
		return false, nil
	}
	return p.Answers[idx], nil
}

// Requests returns every request received, in order
func (p *ScriptedPrompter) Requests() []types.ConfirmationRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]types.ConfirmationRequest(nil), p.requests...)
}
