package types

import "context"

// ConfirmationRequest represents a request for user confirmation before a
// risky entry is processed
type ConfirmationRequest struct {
	// ID is a unique identifier for this confirmation within the operation
	ID string

	// Title is a brief, user-friendly title describing what needs confirmation
	Title string

	// Description provides detailed information about what will happen
	Description string

	// Items lists specific paths that will be affected
	Items []string

	// Token is the exact phrase the user must type to approve
	Token string
}

// Prompter asks the user to approve a ConfirmationRequest. Implementations
// return false when the user declines, input ends, or ctx is cancelled.
type Prompter interface {
	Confirm(ctx context.Context, req ConfirmationRequest) (bool, error)
}
